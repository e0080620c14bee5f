package domain

// TableKind names a mock table fixture.
type TableKind string

const (
	TableSales       TableKind = "sales"
	TableProfit      TableKind = "profit"
	TableUsers       TableKind = "users"
	TableFinancial   TableKind = "financial"
	TablePerformance TableKind = "performance"
	TableDefault     TableKind = "default"
)

var salesTable = TableData{
	Headers: []string{"Product Category", "Revenue", "Costs", "Profit", "Profit Margin", "QoQ Growth"},
	Rows: [][]string{
		{"Laptop Pro", "$1,500,000", "$900,000", "$600,000", "40%", "+25%"},
		{"Phone X", "$2,400,000", "$1,440,000", "$960,000", "40%", "+14%"},
		{"Tablet Air", "$950,000", "$570,000", "$380,000", "40%", "+19%"},
		{"Monitor Plus", "$720,000", "$432,000", "$288,000", "40%", "+20%"},
		{"Accessories", "$480,000", "$288,000", "$192,000", "40%", "+20%"},
	},
	Caption: "Profit Analysis by Product Category (Q2 2024)",
	Summary: "Total Profit: $2,420,000 | Average Margin: 40% | Overall Growth: +19.6%",
}

var usersTable = TableData{
	Headers: []string{"Region", "Active Users", "New Signups", "Churn Rate", "Engagement"},
	Rows: [][]string{
		{"North America", "45,230", "3,450", "2.1%", "High"},
		{"Europe", "38,150", "2,980", "1.8%", "Medium"},
		{"Asia Pacific", "52,400", "4,120", "2.5%", "High"},
		{"South America", "18,750", "1,230", "3.2%", "Medium"},
		{"Africa", "12,300", "890", "4.1%", "Low"},
	},
	Caption: "User Metrics by Region (Last 30 Days)",
	Summary: "Total active users: 166,830 with 12,670 new signups. Average churn rate: 2.7%.",
}

var financialTable = TableData{
	Headers: []string{"Department", "Budget", "Actual", "Variance", "Status"},
	Rows: [][]string{
		{"Marketing", "$50,000", "$48,500", "-3%", "Under"},
		{"Research & Development", "$75,000", "$76,200", "+1.6%", "Over"},
		{"Operations", "$120,000", "$118,400", "-1.3%", "Under"},
		{"Human Resources", "$45,000", "$44,800", "-0.4%", "Under"},
		{"IT Infrastructure", "$85,000", "$87,500", "+2.9%", "Over"},
	},
	Caption: "Q4 2024 Budget vs Actual Spending",
	Summary: "Overall spending is 0.2% under budget with most departments on track.",
}

var performanceTable = TableData{
	Headers: []string{"Metric", "Current", "Previous", "Change", "Target", "Status"},
	Rows: [][]string{
		{"Conversion Rate", "4.2%", "3.8%", "+10.5%", "4.0%", "✅ Exceeded"},
		{"Avg. Order Value", "$124.50", "$118.20", "+5.3%", "$120.00", "✅ Exceeded"},
		{"Customer Satisfaction", "92%", "89%", "+3.4%", "90%", "✅ Exceeded"},
		{"Response Time", "2.4s", "3.1s", "-22.6%", "2.5s", "✅ Improved"},
		{"Error Rate", "0.8%", "1.2%", "-33.3%", "1.0%", "✅ Better"},
	},
	Caption: "Key Performance Indicators - Current vs Previous Month",
	Summary: "4/5 metrics exceeding targets | Overall performance: Excellent",
}

var defaultTable = TableData{
	Headers: []string{"Category", "Current", "Previous", "Change", "Trend"},
	Rows: [][]string{
		{"Metric A", "1,250", "1,100", "+13.6%", "📈"},
		{"Metric B", "890", "920", "-3.3%", "📉"},
		{"Metric C", "2,340", "2,100", "+11.4%", "📈"},
		{"Metric D", "1,560", "1,480", "+5.4%", "📈"},
		{"Metric E", "750", "780", "-3.8%", "📉"},
	},
	Caption: "Performance Metrics Overview",
	Summary: "3 metrics showing positive growth, 2 metrics showing decline.",
}

// MockTable returns a fresh copy of the fixture for kind. Sales and profit share one table;
// unknown kinds get the default table.
func MockTable(kind TableKind) *TableData {
	switch kind {
	case TableSales, TableProfit:
		return salesTable.Clone()
	case TableUsers:
		return usersTable.Clone()
	case TableFinancial:
		return financialTable.Clone()
	case TablePerformance:
		return performanceTable.Clone()
	default:
		return defaultTable.Clone()
	}
}
