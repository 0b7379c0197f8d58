// Package testresult extracts structured test results from raw test-runner
// output. Six format strategies are tried in a fixed priority order (XCTest,
// checkmark/cross, cargo, pytest, go test, jest/mocha); the first one that
// yields a concrete count wins. A generic fallback scans for failure markers
// when no strategy matches. Parsing is pure and never fails.
package testresult

import (
	"regexp"
	"strconv"
	"strings"
)

// TestCase is one test's outcome.
type TestCase struct {
	Name   string
	Passed bool

	// Duration is the test's runtime in seconds, or nil when the
	// format carries none.
	Duration *float64

	// FailureMessage holds the tool's failure text when available.
	FailureMessage string
}

// RunResult summarizes one complete test run.
type RunResult struct {
	TotalPassed int
	FailedNames []string
	Cases       []TestCase
}

// strategy is one self-contained parser for a single tool's output
// convention. ok reports whether the strategy recognized the format at all.
type strategy struct {
	name  string
	parse func(text string) (RunResult, bool)
}

// strategies are tried in fixed priority order.
var strategies = []strategy{
	{"xctest", parseXCTest},
	{"checkmark", parseCheckmark},
	{"cargo", parseCargo},
	{"pytest", parsePytest},
	{"gotest", parseGoTest},
	{"jest", parseJest},
}

// Parse extracts test results from the captured output of a test runner.
// If no strategy recognizes the format, a generic failure-marker scan
// produces bare failed names with no counts and no durations.
func Parse(output string) RunResult {
	for _, s := range strategies {
		if r, ok := s.parse(output); ok {
			return r
		}
	}
	return parseFallback(output)
}

var (
	// Test Case '-[SuiteTests testExample]' passed (0.123 seconds).
	xcCaseRe    = regexp.MustCompile(`Test Case '(?:-\[)?([^']+?)\]?' (passed|failed) \((\d+(?:\.\d+)?) seconds?\)`)
	xcSummaryRe = regexp.MustCompile(`Executed (\d+) tests?, with (\d+) failures?`)
)

func parseXCTest(text string) (RunResult, bool) {
	var r RunResult
	matched := false

	for _, m := range xcCaseRe.FindAllStringSubmatch(text, -1) {
		matched = true
		tc := TestCase{Name: m[1], Passed: m[2] == "passed"}
		if d, err := strconv.ParseFloat(m[3], 64); err == nil {
			tc.Duration = &d
		}
		if !tc.Passed {
			r.FailedNames = append(r.FailedNames, tc.Name)
		}
		r.Cases = append(r.Cases, tc)
	}

	if m := xcSummaryRe.FindStringSubmatch(text); m != nil {
		matched = true
		total, err1 := strconv.Atoi(m[1])
		failures, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			r.TotalPassed = clampNonNegative(total - failures)
		}
	} else {
		for _, tc := range r.Cases {
			if tc.Passed {
				r.TotalPassed++
			}
		}
	}

	return r, matched
}

var (
	checkPassRe = regexp.MustCompile(`^\s*[✓✔]\s+(.+?)(?:\s+\((\d+(?:\.\d+)?)\s*(ms|s)\))?\s*$`)
	checkFailRe = regexp.MustCompile(`^\s*[✗✘×]\s+(.+?)(?:\s+\((\d+(?:\.\d+)?)\s*(ms|s)\))?\s*$`)
)

func parseCheckmark(text string) (RunResult, bool) {
	var r RunResult
	matched := false

	for _, line := range strings.Split(text, "\n") {
		if m := checkPassRe.FindStringSubmatch(line); m != nil {
			matched = true
			r.Cases = append(r.Cases, TestCase{Name: m[1], Passed: true, Duration: parseUnitDuration(m[2], m[3])})
			r.TotalPassed++
			continue
		}
		if m := checkFailRe.FindStringSubmatch(line); m != nil {
			matched = true
			r.Cases = append(r.Cases, TestCase{Name: m[1], Passed: false, Duration: parseUnitDuration(m[2], m[3])})
			r.FailedNames = append(r.FailedNames, m[1])
		}
	}

	return r, matched
}

var (
	cargoCaseRe    = regexp.MustCompile(`(?m)^test (\S+) \.\.\. (ok|FAILED|ignored)$`)
	cargoSummaryRe = regexp.MustCompile(`test result: (?:ok|FAILED)\. (\d+) passed; (\d+) failed`)
)

func parseCargo(text string) (RunResult, bool) {
	var r RunResult
	matched := false

	for _, m := range cargoCaseRe.FindAllStringSubmatch(text, -1) {
		matched = true
		if m[2] == "ignored" {
			continue
		}
		tc := TestCase{Name: m[1], Passed: m[2] == "ok"}
		if !tc.Passed {
			r.FailedNames = append(r.FailedNames, tc.Name)
		}
		r.Cases = append(r.Cases, tc)
	}

	if m := cargoSummaryRe.FindStringSubmatch(text); m != nil {
		matched = true
		if passed, err := strconv.Atoi(m[1]); err == nil {
			r.TotalPassed = passed
		}
	} else {
		for _, tc := range r.Cases {
			if tc.Passed {
				r.TotalPassed++
			}
		}
	}

	return r, matched
}

var (
	// ==== 2 failed, 3 passed in 1.23s ====
	pytestSummaryRe = regexp.MustCompile(`(?m)^=+.* in [\d.]+s.*=+\s*$`)
	pytestPassedRe  = regexp.MustCompile(`(\d+) passed`)
	pytestFailedRe  = regexp.MustCompile(`(?m)^FAILED (\S+)(?:\s+-\s+(.*))?$`)
)

func parsePytest(text string) (RunResult, bool) {
	var r RunResult

	summary := pytestSummaryRe.FindString(text)
	failed := pytestFailedRe.FindAllStringSubmatch(text, -1)
	if summary == "" && len(failed) == 0 {
		return r, false
	}

	if m := pytestPassedRe.FindStringSubmatch(summary); m != nil {
		if passed, err := strconv.Atoi(m[1]); err == nil {
			r.TotalPassed = passed
		}
	}

	for _, f := range failed {
		tc := TestCase{Name: f[1], Passed: false, FailureMessage: strings.TrimSpace(f[2])}
		r.FailedNames = append(r.FailedNames, tc.Name)
		r.Cases = append(r.Cases, tc)
	}

	return r, true
}

// --- PASS: TestA (0.01s) / --- FAIL: TestB (0.02s), indented for subtests.
var goCaseRe = regexp.MustCompile(`(?m)^\s*--- (PASS|FAIL): (\S+) \((\d+(?:\.\d+)?)s\)`)

func parseGoTest(text string) (RunResult, bool) {
	var r RunResult
	matched := false

	for _, m := range goCaseRe.FindAllStringSubmatch(text, -1) {
		matched = true
		tc := TestCase{Name: m[2], Passed: m[1] == "PASS"}
		if d, err := strconv.ParseFloat(m[3], 64); err == nil {
			tc.Duration = &d
		}
		if tc.Passed {
			r.TotalPassed++
		} else {
			r.FailedNames = append(r.FailedNames, tc.Name)
		}
		r.Cases = append(r.Cases, tc)
	}

	return r, matched
}

var (
	// Jest: "Tests:       1 failed, 2 passed, 3 total"
	jestSummaryRe = regexp.MustCompile(`Tests:\s+(?:(\d+) failed, )?(?:(\d+) skipped, )?(\d+) passed, (\d+) total`)
	// Mocha: "5 passing (2s)" / "1 failing"
	mochaPassRe = regexp.MustCompile(`(?m)^\s*(\d+) passing`)
	mochaFailRe = regexp.MustCompile(`(?m)^\s*(\d+) failing`)
)

func parseJest(text string) (RunResult, bool) {
	var r RunResult

	if m := jestSummaryRe.FindStringSubmatch(text); m != nil {
		if passed, err := strconv.Atoi(m[3]); err == nil {
			r.TotalPassed = passed
		}
		return r, true
	}

	m := mochaPassRe.FindStringSubmatch(text)
	if m == nil && !mochaFailRe.MatchString(text) {
		return r, false
	}
	if m != nil {
		if passed, err := strconv.Atoi(m[1]); err == nil {
			r.TotalPassed = passed
		}
	}
	// Mocha lists failure details in free-form blocks this parser does not
	// model; only the counts are extracted.
	return r, true
}

// failureMarkers are substrings that flag a line as a probable test failure.
// Matching is deliberately loose and can misfire on unrelated log lines that
// merely contain the text; callers get bare names with no counts.
var failureMarkers = []string{"FAILED", "FAIL", "✗", "×"}

func parseFallback(text string) RunResult {
	var r RunResult

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, marker := range failureMarkers {
			idx := strings.Index(trimmed, marker)
			if idx < 0 {
				continue
			}
			name := strings.TrimLeft(trimmed[idx+len(marker):], " \t:-")
			name = strings.TrimSpace(name)
			if name == "" {
				name = trimmed
			}
			r.FailedNames = append(r.FailedNames, name)
			r.Cases = append(r.Cases, TestCase{Name: name, Passed: false})
			break
		}
	}

	return r
}

// parseUnitDuration converts a "(123ms)" or "(1.5s)" capture to seconds.
func parseUnitDuration(value, unit string) *float64 {
	if value == "" {
		return nil
	}
	d, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	if unit == "ms" {
		d /= 1000
	}
	return &d
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
