package model

import "errors"

// ErrMissingReport is returned by ReportData.Validate when the payload has
// no report object.
var ErrMissingReport = errors.New("malformed report data: missing report")

// ReportData is the body of a successful report generation response.
// It is treated as immutable once received.
type ReportData struct {
	// CompanyName is the company the report was generated for, as echoed
	// back by the backend.
	CompanyName string `json:"company_name"`

	// Report is the structured research report.
	// A nil Report means the payload was malformed.
	Report *Report `json:"report"`
}

// Validate checks that the payload can be rendered.
// Every field inside Report is allowed to be absent; only the report object
// itself is required.
func (d *ReportData) Validate() error {
	if d == nil || d.Report == nil {
		return ErrMissingReport
	}
	return nil
}

// Report is the researched company description, split in fixed sections.
type Report struct {
	Overview   Overview   `json:"overview"`
	Industry   Industry   `json:"industry"`
	Financials Financials `json:"financials"`
	News       News       `json:"news"`
	References References `json:"references"`
}

// Overview describes the company itself.
type Overview struct {
	BusinessDescription     string                 `json:"business_description"`
	CoreProductsAndServices []string               `json:"core_products_and_services"`
	LeadershipTeam          []Leader               `json:"leadership_team"`
	TargetMarket            string                 `json:"target_market,omitempty"`
	CompetitiveAdvantages   []CompetitiveAdvantage `json:"competitive_advantages"`
	BusinessModel           string                 `json:"business_model,omitempty"`
	FundingAndInvestment    string                 `json:"funding_and_investment,omitempty"`
}

// Leader is one member of the leadership team.
type Leader struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// CompetitiveAdvantage is a single differentiator of the company.
type CompetitiveAdvantage struct {
	Point string `json:"point"`
}

// Industry describes the market the company operates in.
type Industry struct {
	MarketLandscape  string   `json:"market_landscape"`
	Competition      []string `json:"competition"`
	MarketChallenges string   `json:"market_challenges,omitempty"`
}

// Financials holds the revenue model and headline numbers.
// Figures are kept as the backend formats them (e.g. "$4.2B").
type Financials struct {
	RevenueModel    string   `json:"revenue_model"`
	Revenue2024     string   `json:"revenue_2024,omitempty"`
	GrowthRate      string   `json:"growth_rate,omitempty"`
	NetIncomeChange string   `json:"net_income_change,omitempty"`
	KeyMetrics      []string `json:"key_metrics,omitempty"`
}

// HasHighlights reports whether the 2024 highlights block should be shown.
func (f Financials) HasHighlights() bool {
	return f.Revenue2024 != ""
}

// News holds recent news about the company.
type News struct {
	NewsItems []NewsItem `json:"news_items"`
}

// NewsItem is a single news entry. Date and Summary are optional.
type NewsItem struct {
	Title   string `json:"title"`
	Date    string `json:"date,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// References lists the sources the report was compiled from.
type References struct {
	References []Reference `json:"references"`
}

// Reference is one cited source.
type Reference struct {
	SourceName string `json:"source_name"`
	URL        string `json:"url"`
}
