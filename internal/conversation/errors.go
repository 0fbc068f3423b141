package conversation

import (
	"errors"

	"github.com/kazz187/taskbot/pkg/cerr"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotAMember         = errors.New("target is not a member")
	ErrDuplicateMember    = errors.New("member already exists")
	ErrInvalidNumericID   = errors.New("invalid numeric id")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotificationFailed = errors.New("notification delivery failed")
)

const (
	msgPermissionDenied = "⛔️ You do not have the necessary permissions for this action."
	msgSomethingWrong   = "⚠️ Something went wrong. Please try again."
)

// userText picks the reply for err. Internal failures get a generic text so
// storage details never reach the chat.
func userText(err error) string {
	switch cerr.CodeOf(err) {
	case cerr.Internal, cerr.Unknown, cerr.DataLoss:
		return msgSomethingWrong
	}
	return cerr.MessageOf(err, msgSomethingWrong)
}
