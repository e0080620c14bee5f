package responder

// category is the bucket a question is classified into.
type category string

const (
	categoryProfit      category = "profit"
	categorySales       category = "sales"
	categoryUsers       category = "users"
	categoryGreeting    category = "greeting"
	categoryThanks      category = "thanks"
	categoryHelp        category = "help"
	categoryFinancial   category = "financial"
	categoryPerformance category = "performance"
	categoryDefault     category = "default"
)

const greetingReply = "Hello! How can I assist you today? I can help with data analysis, answer questions, " +
	"or provide insights. Feel free to ask about sales, profits, users, or any other business metrics."

const thanksReply = "You're welcome! If you have any more questions about data, metrics, or analysis, feel free to ask."

const helpReply = `I'm here to help you analyze data! I can provide insights on:
• Sales and revenue metrics
• Profit margins and earnings
• User and customer statistics
• Financial data and budgets
• Performance metrics

Just ask me anything about your data!`

// Each template echoes the asked question once, unescaped.
var templates = map[category][]string{
	categorySales: {
		`I've analyzed the sales data for "%s". Here are the key insights:`,
		`Based on your sales query about "%s", here are the findings:`,
		`Sales analysis for "%s" reveals:`,
	},
	categoryProfit: {
		`I've examined profit metrics related to "%s". Here's the analysis:`,
		`Profit analysis for "%s" shows:`,
		`Regarding your profit question "%s", here are the details:`,
	},
	categoryUsers: {
		`User statistics for "%s" indicate:`,
		`Analyzing user data for "%s" reveals:`,
		`Customer insights for "%s":`,
	},
	categoryDefault: {
		`I understand you're asking about "%s". Here's what I found:`,
		`Regarding "%s", here's the information:`,
		`Analysis of "%s" shows:`,
	},
}

var followUps = map[category]string{
	categorySales:  "\n\nWould you like more details on:\n• Regional sales breakdown\n• Product performance comparison\n• Sales trends over time?",
	categoryProfit: "\n\nWould you like to see:\n• Profit margins by product\n• Quarterly profit trends\n• Profit vs revenue comparison?",
	categoryUsers:  "\n\nWould you like information on:\n• User demographics\n• Engagement metrics\n• Churn analysis?",
}
