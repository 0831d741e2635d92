package report

import (
	"fmt"
	"html"
	"io"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/corpscope/internal/model"
)

// DateLayout is the layout of the "Report Generated" line.
const DateLayout = "1/2/2006"

// Fallback text for optional fields that the template always shows.
const (
	FallbackTargetMarket     = "Global market"
	FallbackBusinessModel    = "Subscription and service-based model"
	FallbackMarketChallenges = "Market faces several competitive and regulatory challenges"
)

// Fixed prose of the template.
const (
	productsIntro      = "The company offers a comprehensive portfolio of products and services:"
	productSuffix      = "Advanced solution tailored for market demands"
	leadershipIntro    = "The organization is led by experienced executives with proven track records:"
	advantagesIntro    = "The organization maintains several key competitive advantages:"
	advantageSuffix    = "Strategic differentiator in the marketplace"
	landscapeSentence  = "The market presents significant growth opportunities driven by digital transformation, increasing consumer demand, and technological innovation."
	competitorSentence = "Each competitor brings unique strengths to the market, creating a dynamic competitive landscape that drives innovation and market evolution."
	challengesSentence = "The organization must navigate these challenges through strategic innovation, operational excellence, and adaptive market strategies."
	revenueSentence    = "The diversified revenue model ensures financial stability and sustainable growth across market cycles."
	metricsSentence    = "These metrics demonstrate the organization's operational efficiency, market penetration, and financial health."
	referencesIntro    = "This comprehensive report was compiled from the following authoritative sources:"
	conclusionBody     = "stands as a significant player in its industry, demonstrating strong competitive positioning, diverse revenue streams, and strategic market presence. The organization's focus on innovation, customer-centric solutions, and operational excellence positions it favorably for continued growth and market leadership."
	disclaimerBody     = "This report is based on publicly available information and research conducted at the time of generation. Market conditions and company circumstances are subject to rapid change."
)

// MarkdownWriter outputs reports using the fixed research-report template.
//
// The template is built with the nao1215/markdown library. Its layout is
// relied upon by ToHTML, so section order and line shapes must not change
// without updating the converter.
type MarkdownWriter struct {
	baseWriter

	// now supplies the "Report Generated" date.
	now func() time.Time

	// escape HTML-escapes every value taken from the report.
	escape bool
}

// MarkdownOption configures a MarkdownWriter.
type MarkdownOption func(*MarkdownWriter)

// WithClock sets the clock used for the generation date.
func WithClock(now func() time.Time) MarkdownOption {
	return func(w *MarkdownWriter) {
		if now != nil {
			w.now = now
		}
	}
}

// WithEscapedText HTML-escapes report values before they are placed in the
// template. Off by default: report text is inserted as received.
func WithEscapedText() MarkdownOption {
	return func(w *MarkdownWriter) {
		w.escape = true
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// RenderMarkdown returns the Markdown document for data.
// It never mutates data and never fails: absent fields degrade to the
// documented fallback text or are skipped.
func RenderMarkdown(data *model.ReportData, opts ...MarkdownOption) string {
	return NewMarkdownWriter(io.Discard, opts...).render(data)
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(data *model.ReportData) (int, error) {
	return io.WriteString(w.output, w.render(data))
}

// render composes the document for data into a string.
func (w *MarkdownWriter) render(data *model.ReportData) string {
	md := markdown.NewMarkdown(io.Discard)
	w.compose(md, data)
	return md.String()
}

// compose appends the whole template to md.
func (w *MarkdownWriter) compose(md *markdown.Markdown, data *model.ReportData) {
	company, r := reportOf(data)
	company = w.text(company)

	w.writeHeader(md, company)
	w.writeExecutiveSummary(md, r.Overview)
	w.writeCompanyProfile(md, r.Overview)
	w.writeIndustry(md, r.Industry)
	w.writeFinancials(md, r.Financials)
	w.writeNews(md, r.News)
	w.writeReferences(md, r.References)
	w.writeConclusion(md, company)
}

// text prepares a report value for the template.
func (w *MarkdownWriter) text(s string) string {
	if w.escape {
		return html.EscapeString(s)
	}
	return s
}

// orDefault returns s, or fallback when s is empty.
func (w *MarkdownWriter) orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return w.text(s)
}

// sectionBreak closes a top-level section.
func sectionBreak(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, company string) {
	md.H1(company + " - Comprehensive Research Report")
	md.PlainText("")
	md.PlainText(markdown.Bold("Report Generated:") + " " + w.now().Format(DateLayout))
	md.PlainText("")
	sectionBreak(md)
}

func (w *MarkdownWriter) writeExecutiveSummary(md *markdown.Markdown, o model.Overview) {
	md.H2("Executive Summary")
	md.PlainText("")
	md.PlainText(w.text(o.BusinessDescription))
	md.PlainText("")
	sectionBreak(md)
}

func (w *MarkdownWriter) writeCompanyProfile(md *markdown.Markdown, o model.Overview) {
	md.H2("Company Profile")
	md.PlainText("")

	md.H3("Overview")
	md.PlainText(w.text(o.BusinessDescription))
	md.PlainText("")

	md.H3("Core Products & Services")
	md.PlainText(productsIntro)
	md.PlainText("")
	products := make([]string, 0, len(o.CoreProductsAndServices))
	for _, p := range o.CoreProductsAndServices {
		products = append(products, markdown.Bold(w.text(p))+" - "+productSuffix)
	}
	w.orderedList(md, products)
	md.PlainText("")

	md.H3("Leadership & Management")
	md.PlainText(leadershipIntro)
	md.PlainText("")
	for _, l := range o.LeadershipTeam {
		md.BulletList(markdown.Bold(w.text(l.Name)) + " | Position: " + w.text(l.Role))
	}
	md.PlainText("")

	md.H3("Target Market & Customer Base")
	md.PlainText(w.orDefault(o.TargetMarket, FallbackTargetMarket))
	md.PlainText("")

	md.H3("Competitive Positioning")
	md.PlainText(advantagesIntro)
	md.PlainText("")
	advantages := make([]string, 0, len(o.CompetitiveAdvantages))
	for _, ca := range o.CompetitiveAdvantages {
		advantages = append(advantages, markdown.Bold(w.text(ca.Point))+" - "+advantageSuffix)
	}
	w.orderedList(md, advantages)
	md.PlainText("")

	md.H3("Business Model")
	md.PlainText(w.orDefault(o.BusinessModel, FallbackBusinessModel))
	md.PlainText("")

	if o.FundingAndInvestment != "" {
		md.H3("Funding & Investment")
		md.PlainText(w.text(o.FundingAndInvestment))
		md.PlainText("")
	}

	sectionBreak(md)
}

func (w *MarkdownWriter) writeIndustry(md *markdown.Markdown, ind model.Industry) {
	md.H2("Industry Analysis")
	md.PlainText("")

	md.H3("Market Landscape & Opportunities")
	md.PlainText(w.text(ind.MarketLandscape))
	md.PlainText("")
	md.PlainText(landscapeSentence)
	md.PlainText("")

	md.H3("Competitive Environment")
	md.PlainText(markdown.Bold("Key Competitors:"))
	competitors := make([]string, 0, len(ind.Competition))
	for _, c := range ind.Competition {
		competitors = append(competitors, w.text(c))
	}
	w.orderedList(md, competitors)
	md.PlainText("")
	md.PlainText(competitorSentence)
	md.PlainText("")

	md.H3("Market Challenges & Risks")
	md.PlainText(w.orDefault(ind.MarketChallenges, FallbackMarketChallenges))
	md.PlainText("")
	md.PlainText(challengesSentence)
	md.PlainText("")

	sectionBreak(md)
}

func (w *MarkdownWriter) writeFinancials(md *markdown.Markdown, f model.Financials) {
	md.H2("Financial Performance & Metrics")
	md.PlainText("")

	md.H3("Revenue Model")
	md.PlainText(markdown.Bold("Primary Revenue Streams:"))
	md.PlainText("")
	md.PlainText(w.text(f.RevenueModel))
	md.PlainText("")
	md.PlainText(revenueSentence)
	md.PlainText("")

	if f.HasHighlights() {
		md.H3("Financial Highlights - 2024")
		md.BulletList(markdown.Bold("Revenue 2024:") + " " + w.text(f.Revenue2024))
		if f.GrowthRate != "" {
			md.BulletList(markdown.Bold("Growth Rate:") + " " + w.text(f.GrowthRate))
		}
		if f.NetIncomeChange != "" {
			md.BulletList(markdown.Bold("Net Income Change:") + " " + w.text(f.NetIncomeChange))
		}
		md.PlainText("")
	}

	md.H3("Key Performance Indicators")
	if len(f.KeyMetrics) > 0 {
		metrics := make([]string, 0, len(f.KeyMetrics))
		for _, m := range f.KeyMetrics {
			metrics = append(metrics, w.text(m))
		}
		w.orderedList(md, metrics)
		md.PlainText("")
	}
	md.PlainText(metricsSentence)
	md.PlainText("")

	sectionBreak(md)
}

func (w *MarkdownWriter) writeNews(md *markdown.Markdown, n model.News) {
	md.H2("Recent Developments & News")
	md.PlainText("")
	md.H3("Latest Announcements")
	for i, item := range n.NewsItems {
		md.PlainText("")
		md.H4(fmt.Sprintf("%d. %s", i+1, w.text(item.Title)))
		if item.Date != "" {
			md.PlainText(markdown.Bold("Date:") + " " + w.text(item.Date))
		}
		if item.Summary != "" {
			md.PlainText(w.text(item.Summary))
		}
	}
	md.PlainText("")

	sectionBreak(md)
}

func (w *MarkdownWriter) writeReferences(md *markdown.Markdown, refs model.References) {
	md.H2("Research Sources & References")
	md.PlainText("")
	md.PlainText(referencesIntro)
	md.PlainText("")
	links := make([]string, 0, len(refs.References))
	for _, r := range refs.References {
		links = append(links, markdown.Link(w.text(r.SourceName), w.text(r.URL)))
	}
	w.orderedList(md, links)
	md.PlainText("")

	sectionBreak(md)
}

func (w *MarkdownWriter) writeConclusion(md *markdown.Markdown, company string) {
	md.H2("Conclusion")
	md.PlainText("")
	md.PlainText(company + " " + conclusionBody)
	md.PlainText("")
	md.PlainText(markdown.Bold("Report Disclaimer:") + " " + disclaimerBody)
	md.PlainText("")
}

// orderedList writes items as "1. ", "2. ", ... lines.
// Empty input writes nothing.
func (w *MarkdownWriter) orderedList(md *markdown.Markdown, items []string) {
	for i, item := range items {
		md.PlainText(fmt.Sprintf("%d. %s", i+1, item))
	}
}
