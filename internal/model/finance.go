package model

import "fdms/internal/ident"

func sequence(field, prefix string, width int, yearly bool) *Code {
	return &Code{Field: field, Next: ident.Sequence{Prefix: prefix, Width: width, Yearly: yearly}.Next}
}

// Invoices bill a client; the invoice number is chosen by the caller.
var Invoices = &Entity{
	Label: "Invoice",
	Path:  "invoices",
	Table: "invoices",
	Fields: []Field{
		str("invoice_number").Req(),
		str("client_name").Req(),
		str("client_email"),
		str("client_phone"),
		str("billing_address"),
		str("branch"),
		str("case_reference"),
		str("service_reference"),
		day("invoice_date").Req(),
		day("due_date").Req(),
		str("status").Def("Draft"),
		money("subtotal").Def(0),
		money("tax_amount").Def(0),
		money("discount_amount").Def(0),
		money("total_amount").Def(0),
		money("paid_amount").Def(0),
		money("balance").Def(0),
		str("payment_terms"),
		str("internal_notes"),
		str("client_notes"),
	},
	Uniques: []Unique{{Field: "invoice_number", Message: "Invoice number already exists"}},
	Search:  []string{"invoice_number", "client_name"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("branch", "All Branches"),
	},
	Order: newestFirst(),
	Stats: []Stat{
		total("total_invoices"),
		sum("total_revenue", "total_amount", ""),
		sum("outstanding", "balance", "balance > 0"),
		count("overdue", "balance > 0 AND due_date < CURRENT_DATE"),
	},
}

// Payments are money received against invoices.
var Payments = &Entity{
	Label: "Payment",
	Path:  "payments",
	Table: "payments",
	Fields: []Field{
		str("payment_number"),
		integer("invoice_id"),
		str("invoice_number"),
		str("payer_name").Req(),
		str("payment_method").Req(),
		money("amount").Req(),
		day("payment_date").Req(),
		str("reference_number"),
		str("status").Def("Pending"),
		str("notes"),
	},
	Code:    sequence("payment_number", "PAY", 3, false),
	Uniques: []Unique{{Field: "payment_number", Message: "Payment number already exists"}},
	Parents: []Parent{parent("invoice_id", "invoices", "Invoice")},
	Search:  []string{"payment_number", "payer_name", "invoice_number"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("payment_method", "All Methods"),
		byID("invoice_id"),
	},
	Order:   newestFirst(),
	Related: []Related{{Path: "by-invoice", Field: "invoice_id"}},
	Stats: []Stat{
		total("total_payments"),
		sum("total_received", "amount", "status IN ('Completed', 'Cleared')"),
		count("pending", "status = 'Pending'"),
		count("processing", "status = 'Processing'"),
	},
}

// Expenses are money paid out to vendors.
var Expenses = &Entity{
	Label: "Expense",
	Path:  "expenses",
	Table: "expenses",
	Fields: []Field{
		str("expense_number"),
		str("category").Req(),
		str("branch"),
		str("description").Req(),
		money("amount").Req(),
		day("expense_date").Req(),
		day("due_date"),
		str("vendor_name").Req(),
		str("vendor_reference"),
		str("payment_method"),
		str("check_number"),
		str("status").Def("Pending"),
		flag("is_tax_deductible"),
		str("notes"),
	},
	Code:    sequence("expense_number", "EXP", 3, false),
	Uniques: []Unique{{Field: "expense_number", Message: "Expense number already exists"}},
	Search:  []string{"expense_number", "vendor_name", "description"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("category", "All Categories"),
	},
	Order: newestFirst(),
	Stats: []Stat{
		total("total_expenses"),
		sum("total_amount", "amount", ""),
		count("pending", "status = 'Pending'"),
		count("paid", "status = 'Paid'"),
	},
}

// Transactions form the general ledger of income and expense lines.
var Transactions = &Entity{
	Label: "Transaction",
	Path:  "transactions",
	Table: "transactions",
	Fields: []Field{
		str("transaction_id"),
		str("transaction_type").Req(),
		str("category").Req(),
		money("amount").Req(),
		day("transaction_date").Req(),
		str("description").Req(),
		integer("invoice_id"),
		integer("payment_id"),
		str("reference_number"),
		str("account_name"),
		str("branch"),
		str("notes"),
	},
	Code:    sequence("transaction_id", "TXN", 3, false),
	Uniques: []Unique{{Field: "transaction_id", Message: "Transaction ID already exists"}},
	Parents: []Parent{
		parent("invoice_id", "invoices", "Invoice"),
		parent("payment_id", "payments", "Payment"),
	},
	Search: []string{"transaction_id", "description", "account_name"},
	Filters: []Filter{
		match("transaction_type", "All Types"),
		match("category", "All Categories"),
	},
	Order: []Order{{Column: "transaction_date", Desc: true}},
	Stats: []Stat{
		total("total_transactions"),
		sum("income", "amount", "transaction_type = 'Income'"),
		sum("expenses", "amount", "transaction_type = 'Expense'"),
		diff("net", "income", "expenses"),
	},
}
