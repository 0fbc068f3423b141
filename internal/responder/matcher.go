// Package responder answers free chat with canned replies.
package responder

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule pairs a pattern with its reply.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Reply   string `yaml:"reply"`
}

// DefaultRules in precedence order. Patterns are unanchored, so "hi" also
// matches inside "this"; greetings come first and win over later rules.
var DefaultRules = []Rule{
	{`(hello|hi)`, "Hello there!"},
	{`(how are you|how's it going)`, "I'm a bot, but I'm doing great! How about you?"},
	{`(what can you do|help|features)`, "I can manage tasks, generate reports, and add users. Use the main menu to see the options."},
	{`(what is your name)`, "I am a Task Management Bot!"},
	{`(thank you|thanks)`, "You're welcome! Happy to help."},
	{`(bye|goodbye)`, "Goodbye! Have a great day."},
}

type compiledRule struct {
	re    *regexp.Regexp
	reply string
}

// Matcher returns the reply of the first rule whose pattern occurs in the
// lower-cased, trimmed input.
type Matcher struct {
	rules []compiledRule
}

func New(rules []Rule) (*Matcher, error) {
	m := &Matcher{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid pattern %q: %w", i, r.Pattern, err)
		}
		m.rules = append(m.rules, compiledRule{re: re, reply: r.Reply})
	}
	return m, nil
}

// Default returns a Matcher over DefaultRules.
func Default() *Matcher {
	m, err := New(DefaultRules)
	if err != nil {
		panic(err)
	}
	return m
}

// LoadYAML reads an ordered list of rules from path, e.g.
//
//	- pattern: "(hello|hi)"
//	  reply: "Hello there!"
func LoadYAML(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replies file: %w", err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse replies file %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("replies file %s has no rules", path)
	}
	return New(rules)
}

func (m *Matcher) Match(text string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, r := range m.rules {
		if r.re.MatchString(normalized) {
			return r.reply, true
		}
	}
	return "", false
}
