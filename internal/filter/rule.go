// Package filter suppresses notifications with expression rules evaluated
// against each new record before dispatch. Filters only decide what gets
// shown; every fetched record is still remembered in the seen-set, so a
// muted item does not come back when the filter changes.
package filter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/bakkerme/gh-notifier/internal/config"
	"github.com/bakkerme/gh-notifier/internal/core"
)

// Rule is one compiled rule. result "drop" suppresses matching records;
// result "pass" suppresses everything that does not match.
type Rule struct {
	name    string
	result  string
	program *vm.Program
}

// Set evaluates rules in document order. A record must survive every rule to
// be dispatched.
type Set struct {
	rules []Rule
}

// Compile builds a rule set from document config. Malformed expressions fail
// the run at startup, not mid-dispatch.
func Compile(configs []config.FilterRule) (*Set, error) {
	set := &Set{}
	for _, cfg := range configs {
		if cfg.Name == "" || cfg.Rule == "" {
			return nil, fmt.Errorf("filter rule name and expression are required")
		}
		if cfg.Result != "pass" && cfg.Result != "drop" {
			return nil, fmt.Errorf("filter %q: result must be 'pass' or 'drop'", cfg.Name)
		}
		program, err := expr.Compile(cfg.Rule, expr.Env(ruleEnv(core.Record{})))
		if err != nil {
			return nil, fmt.Errorf("compile filter %q: %w", cfg.Name, err)
		}
		set.rules = append(set.rules, Rule{name: cfg.Name, result: cfg.Result, program: program})
	}
	return set, nil
}

// Len reports the number of compiled rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Apply returns the records that survive every rule, in input order.
// Evaluation failures keep the record: a broken filter must not silently eat
// notifications.
func (s *Set) Apply(ctx context.Context, records []core.Record) []core.Record {
	if s.Len() == 0 {
		return records
	}
	logger := core.LoggerFromContext(ctx)

	kept := make([]core.Record, 0, len(records))
	for _, rec := range records {
		if s.keep(logger, rec) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func (s *Set) keep(logger *slog.Logger, rec core.Record) bool {
	env := ruleEnv(rec)
	for _, rule := range s.rules {
		result, err := expr.Run(rule.program, env)
		if err != nil {
			logger.Warn("filter evaluation failed, keeping record", "filter", rule.name, "error", err)
			continue
		}
		matched, ok := result.(bool)
		if !ok {
			logger.Warn("filter did not return a bool, keeping record", "filter", rule.name)
			continue
		}
		if rule.result == "drop" && matched {
			return false
		}
		if rule.result == "pass" && !matched {
			return false
		}
	}
	return true
}

func ruleEnv(rec core.Record) map[string]interface{} {
	return map[string]interface{}{
		"id":         rec.ID,
		"unread":     rec.Unread,
		"reason":     rec.Reason,
		"updated_at": rec.UpdatedAt,
		"title":      rec.Subject.Title,
		"url":        rec.Subject.URL,
		"type":       rec.Subject.Type,
		"repository": rec.Repository.FullName,
	}
}
