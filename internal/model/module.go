package model

// Module 是一个学习模块，同时也是看板上的一条序列
type Module struct {
	Key        string  `json:"key"`
	Title      string  `json:"title"`
	Subtitle   string  `json:"subtitle"`
	Color      string  `json:"color"`
	VideoURL   string  `json:"videoUrl"`
	Transcript string  `json:"-"`
	Seed       float64 `json:"seed"`
	// Topic 是题库的主题键
	Topic string `json:"topic"`
}

var modules = []Module{
	{
		Key:        "budgeting",
		Title:      "The Art of Budgeting",
		Subtitle:   "50/30/20 Rule",
		Color:      "#FDE68A",
		VideoURL:   "https://www.youtube.com/embed/S_n-uxb6o3I",
		Transcript: "This module explains the 50/30/20 rule. It is a simple budgeting framework where you allocate 50% of your after-tax income to Needs, 30% to Wants, and 20% to Savings. Needs are essential expenses like rent and groceries. Wants are non-essential lifestyle expenses like dining out or hobbies. Savings includes debt repayment and investments.",
		Seed:       100,
		Topic:      "budgeting",
	},
	{
		Key:        "credit",
		Title:      "Credit Score 101",
		Subtitle:   "Your Financial Report Card",
		Color:      "#A7F3D0",
		VideoURL:   "https://www.youtube.com/embed/d_q-s_43_9k",
		Transcript: "A credit score is a number between 300-900 that represents your creditworthiness. The single most important factor is paying bills on time. Keeping credit card balances low is also crucial. A good score makes it easier to get loans for cars or homes. A student credit card, used for small purchases and paid off in full each month, is a great way to build credit history.",
		Seed:       120,
		Topic:      "credit",
	},
	{
		Key:        "mortgage",
		Title:      "Nonna's Mortgage Sauce",
		Subtitle:   "Understanding Mortgages",
		Color:      "#93C5FD",
		VideoURL:   "https://www.youtube.com/embed/7PM4r_3yS_A",
		Transcript: "A mortgage is a loan to buy a house. The DOWN PAYMENT is the money you bring yourself. The MORTGAGE is the large loan from the bank. INTEREST is the extra you pay the bank for the loan. AMORTIZATION is the long process of paying it off, where at first most of your payment goes to interest, but over time, more goes to paying down the loan itself, building your equity.",
		Seed:       80,
		Topic:      "stocks",
	},
}

// Modules 返回目录副本，顺序即看板和排名的顺序
func Modules() []Module {
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

func FindModule(key string) (Module, bool) {
	for _, m := range modules {
		if m.Key == key {
			return m, true
		}
	}
	return Module{}, false
}
