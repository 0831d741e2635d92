package report

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nao1215/corpscope/internal/model"
)

// mandatoryHeadings lists the headings present in every report, in order.
var mandatoryHeadings = []string{
	"# Acme Corp - Comprehensive Research Report",
	"## Executive Summary",
	"## Company Profile",
	"### Overview",
	"### Core Products & Services",
	"### Leadership & Management",
	"### Target Market & Customer Base",
	"### Competitive Positioning",
	"### Business Model",
	"## Industry Analysis",
	"### Market Landscape & Opportunities",
	"### Competitive Environment",
	"### Market Challenges & Risks",
	"## Financial Performance & Metrics",
	"### Revenue Model",
	"### Key Performance Indicators",
	"## Recent Developments & News",
	"### Latest Announcements",
	"## Research Sources & References",
	"## Conclusion",
}

// optionalHeadings are only emitted when their fields are present.
var optionalHeadings = []string{
	"### Funding & Investment",
	"### Financial Highlights - 2024",
}

// headingLines returns the lines of md that start with '#'.
func headingLines(md string) []string {
	var out []string
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out
}

func countLine(md, line string) int {
	n := 0
	for _, l := range strings.Split(md, "\n") {
		if l == line {
			n++
		}
	}
	return n
}

func TestRenderMarkdown_RequiredOnly(t *testing.T) {
	t.Parallel()

	md := RenderMarkdown(requiredOnlyReport(), WithClock(fixedClock()))

	t.Run("mandatory headings appear once in order", func(t *testing.T) {
		t.Parallel()
		var got []string
		for _, h := range headingLines(md) {
			if strings.HasPrefix(h, "#### ") {
				continue
			}
			got = append(got, h)
		}
		if !reflect.DeepEqual(got, mandatoryHeadings) {
			t.Errorf("headings mismatch\n got: %q\nwant: %q", got, mandatoryHeadings)
		}
		for _, h := range mandatoryHeadings {
			if n := countLine(md, h); n != 1 {
				t.Errorf("expected %q exactly once, got %d", h, n)
			}
		}
	})

	t.Run("optional blocks are absent", func(t *testing.T) {
		t.Parallel()
		for _, h := range optionalHeadings {
			if strings.Contains(md, h) {
				t.Errorf("unexpected optional heading %q", h)
			}
		}
		for _, s := range []string{"**Growth Rate:**", "**Net Income Change:**", "**Date:**"} {
			if strings.Contains(md, s) {
				t.Errorf("unexpected optional line %q", s)
			}
		}
	})

	t.Run("fallback text replaces absent fields", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{FallbackTargetMarket, FallbackBusinessModel, FallbackMarketChallenges} {
			if !strings.Contains(md, s) {
				t.Errorf("expected fallback %q", s)
			}
		}
		if strings.Contains(md, "undefined") || strings.Contains(md, "<nil>") {
			t.Error("output must not leak placeholder values")
		}
	})

	t.Run("lists are enumerated", func(t *testing.T) {
		t.Parallel()
		wantLines := []string{
			"1. **Anvils** - Advanced solution tailored for market demands",
			"2. **Rockets** - Advanced solution tailored for market demands",
			"- **Wile E. Coyote** | Position: CEO",
			"- **Road Runner** | Position: CTO",
			"1. **Durable products** - Strategic differentiator in the marketplace",
			"1. Ajax",
			"2. Zenith",
			"#### 1. Acme ships a new anvil",
			"1. [Acme Newsroom](https://acme.example/news)",
		}
		for _, l := range wantLines {
			if countLine(md, l) != 1 {
				t.Errorf("expected line %q", l)
			}
		}
	})

	t.Run("uses injected date", func(t *testing.T) {
		t.Parallel()
		if !strings.Contains(md, "**Report Generated:** 3/5/2024") {
			t.Error("expected generation date 3/5/2024")
		}
	})
}

func TestRenderMarkdown_OptionalFields(t *testing.T) {
	t.Parallel()

	md := RenderMarkdown(fullReport(), WithClock(fixedClock()))

	wantLines := []string{
		"### Funding & Investment",
		"Series B led by Looney Ventures",
		"Cartoon predators",
		"Mail order catalogue",
		"Gravity",
		"### Financial Highlights - 2024",
		"- **Revenue 2024:** $4.2B",
		"- **Growth Rate:** 12%",
		"- **Net Income Change:** +3%",
		"1. NPS 71",
		"2. Churn 2%",
		"**Date:** 2024-02-01",
		"Heavier than ever.",
	}
	for _, l := range wantLines {
		if countLine(md, l) != 1 {
			t.Errorf("expected line %q exactly once", l)
		}
	}

	for _, s := range []string{FallbackTargetMarket, FallbackBusinessModel, FallbackMarketChallenges} {
		if strings.Contains(md, s) {
			t.Errorf("fallback %q must not be used when the field is present", s)
		}
	}
}

func TestRenderMarkdown_HighlightsNeedRevenue(t *testing.T) {
	t.Parallel()

	d := requiredOnlyReport()
	d.Report.Financials.GrowthRate = "12%"
	d.Report.Financials.NetIncomeChange = "+3%"

	md := RenderMarkdown(d)
	if strings.Contains(md, "Financial Highlights") || strings.Contains(md, "Growth Rate") {
		t.Error("highlights must only be emitted when 2024 revenue is present")
	}
}

func TestRenderMarkdown_Total(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data *model.ReportData
	}{
		{name: "nil data", data: nil},
		{name: "missing report", data: &model.ReportData{CompanyName: "Acme"}},
		{name: "empty report", data: &model.ReportData{CompanyName: "Acme", Report: &model.Report{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			md := RenderMarkdown(tt.data)
			if !strings.Contains(md, "## Conclusion") {
				t.Error("expected a complete document")
			}
		})
	}
}

func TestRenderMarkdown_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	d := fullReport()
	before := *d.Report
	_ = RenderMarkdown(d, WithEscapedText())
	if !reflect.DeepEqual(before, *d.Report) {
		t.Error("RenderMarkdown mutated its input")
	}
}

func TestRenderMarkdown_EscapedText(t *testing.T) {
	t.Parallel()

	d := requiredOnlyReport()
	d.Report.Overview.BusinessDescription = `<script>alert("x")</script>`

	raw := RenderMarkdown(d)
	if !strings.Contains(raw, "<script>") {
		t.Error("expected raw text by default")
	}

	escaped := RenderMarkdown(d, WithEscapedText())
	if strings.Contains(escaped, "<script>") {
		t.Error("expected script tag to be escaped")
	}
	if !strings.Contains(escaped, "&lt;script&gt;") {
		t.Error("expected escaped entity")
	}
}

func TestMarkdownWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf, WithClock(fixedClock()))

	n, err := w.Write(requiredOnlyReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 {
		t.Error("expected non-zero byte count")
	}
	if !strings.HasPrefix(buf.String(), "# Acme Corp - Comprehensive Research Report") {
		t.Errorf("unexpected document start: %q", buf.String()[:40])
	}
	if n != buf.Len() {
		t.Errorf("expected byte count %d, got %d", buf.Len(), n)
	}
}

// brokenOutput fails every write.
type brokenOutput struct{}

func (brokenOutput) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestMarkdownWriter_WriteError(t *testing.T) {
	t.Parallel()

	n, err := NewMarkdownWriter(brokenOutput{}, WithClock(fixedClock())).Write(requiredOnlyReport())
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 0 {
		t.Errorf("expected 0 bytes reported on failure, got %d", n)
	}
}
