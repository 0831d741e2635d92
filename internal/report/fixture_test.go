package report

import (
	"time"

	"github.com/nao1215/corpscope/internal/model"
)

// fixedClock returns a clock pinned to 2024-03-05.
func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	}
}

// requiredOnlyReport returns a report with every optional field absent.
func requiredOnlyReport() *model.ReportData {
	return &model.ReportData{
		CompanyName: "Acme Corp",
		Report: &model.Report{
			Overview: model.Overview{
				BusinessDescription:     "Acme builds anvils and rockets.",
				CoreProductsAndServices: []string{"Anvils", "Rockets"},
				LeadershipTeam: []model.Leader{
					{Name: "Wile E. Coyote", Role: "CEO"},
					{Name: "Road Runner", Role: "CTO"},
				},
				CompetitiveAdvantages: []model.CompetitiveAdvantage{
					{Point: "Durable products"},
				},
			},
			Industry: model.Industry{
				MarketLandscape: "Desert logistics is growing.",
				Competition:     []string{"Ajax", "Zenith"},
			},
			Financials: model.Financials{
				RevenueModel: "Direct sales and rentals",
			},
			News: model.News{
				NewsItems: []model.NewsItem{{Title: "Acme ships a new anvil"}},
			},
			References: model.References{
				References: []model.Reference{
					{SourceName: "Acme Newsroom", URL: "https://acme.example/news"},
				},
			},
		},
	}
}

// fullReport returns a report with every optional field populated.
func fullReport() *model.ReportData {
	d := requiredOnlyReport()
	r := *d.Report
	r.Overview.TargetMarket = "Cartoon predators"
	r.Overview.BusinessModel = "Mail order catalogue"
	r.Overview.FundingAndInvestment = "Series B led by Looney Ventures"
	r.Industry.MarketChallenges = "Gravity"
	r.Financials.Revenue2024 = "$4.2B"
	r.Financials.GrowthRate = "12%"
	r.Financials.NetIncomeChange = "+3%"
	r.Financials.KeyMetrics = []string{"NPS 71", "Churn 2%"}
	r.News.NewsItems = []model.NewsItem{
		{Title: "Acme ships a new anvil", Date: "2024-02-01", Summary: "Heavier than ever."},
	}
	return &model.ReportData{CompanyName: d.CompanyName, Report: &r}
}
