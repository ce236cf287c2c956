package cmd

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/9wick/enbu/executor"
)

// writeSummary renders result as format (inferred from path's extension if
// format is empty) and writes it to path.
func writeSummary(result *executor.FlowResult, path, format string) error {
	if format == "" {
		format = formatFromExtension(path)
	}

	var data []byte
	var err error
	switch format {
	case "markdown":
		data = []byte(renderMarkdown(result))
	case "junit":
		data, err = renderJUnit(result)
	default:
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return "markdown"
	case ".xml":
		return "junit"
	default:
		return "json"
	}
}

func renderMarkdown(result *executor.FlowResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Flow: %s\n\n", result.FlowName)
	fmt.Fprintf(&b, "- Session: `%s`\n", result.SessionName)
	fmt.Fprintf(&b, "- Status: **%s**\n", result.Status)
	fmt.Fprintf(&b, "- Duration: %s\n\n", result.Duration)
	fmt.Fprintln(&b, "| # | Tag | Status | Duration | Error |")
	fmt.Fprintln(&b, "|---|-----|--------|----------|-------|")
	for _, s := range result.Steps {
		errMsg := ""
		if s.Err != nil {
			errMsg = s.Err.Error()
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", s.Index, s.Tag, s.Status, s.Duration, errMsg)
	}
	return b.String()
}

type junitTestsuite struct {
	XMLName   xml.Name       `xml:"testsuite"`
	Name      string         `xml:"name,attr"`
	Tests     int            `xml:"tests,attr"`
	Failures  int            `xml:"failures,attr"`
	Skipped   int            `xml:"skipped,attr"`
	TimeSecs  float64        `xml:"time,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name     string        `xml:"name,attr"`
	TimeSecs float64       `xml:"time,attr"`
	Failure  *junitFailure `xml:"failure,omitempty"`
	Skipped  *struct{}     `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
}

func renderJUnit(result *executor.FlowResult) ([]byte, error) {
	suite := junitTestsuite{
		Name:     result.FlowName,
		Tests:    len(result.Steps),
		TimeSecs: result.Duration.Seconds(),
	}
	for _, s := range result.Steps {
		tc := junitTestCase{Name: fmt.Sprintf("%d:%s", s.Index, s.Tag), TimeSecs: s.Duration.Seconds()}
		switch s.Status {
		case executor.StatusFailed:
			suite.Failures++
			msg := ""
			if s.Err != nil {
				msg = s.Err.Error()
			}
			tc.Failure = &junitFailure{Message: msg}
		case executor.StatusSkipped:
			suite.Skipped++
			tc.Skipped = &struct{}{}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	out, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
