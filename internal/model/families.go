package model

// Families are the client households the home serves over time.
var Families = &Entity{
	Label: "Family",
	Path:  "families",
	Table: "families",
	Fields: []Field{
		str("family_id"),
		str("primary_contact_name").Req(),
		str("phone").Req(),
		str("email").Req(),
		str("street_address").Req(),
		str("city").Req(),
		str("state").Req(),
		str("zip_code").Req(),
		str("country").Def("USA"),
		str("preferred_language").Def("English"),
		str("communication_preference").Def("Email"),
		doc("tags"),
		str("notes"),
		integer("total_cases").Def(0).Server(),
		money("lifetime_value").Def(0).Server(),
		str("status").Def("Active").Server(),
	},
	Code:    sequence("family_id", "FAM", 3, false),
	Uniques: []Unique{{Field: "family_id", Message: "Family ID already exists"}},
	Search:  []string{"primary_contact_name", "email", "phone", "family_id"},
	Filters: []Filter{match("status", "All Statuses")},
	Order:   newestFirst(),
	Stats: []Stat{
		total("total_families"),
		count("active_families", "status = 'Active'"),
		sum("total_revenue", "lifetime_value", ""),
		avg("avg_lifetime_value", "lifetime_value", ""),
	},
}

// Communications log messages exchanged with a family.
var Communications = &Entity{
	Label: "Communication",
	Path:  "communications",
	Table: "communications",
	Fields: []Field{
		integer("family_id"),
		str("family_name"),
		integer("case_id"),
		str("case_number"),
		str("type").Req(),
		str("direction").Req(),
		str("status").Def("Sent"),
		str("subject"),
		str("message").Req(),
		str("response"),
		flag("has_attachments"),
		integer("attachment_count").Def(0),
		stamp("communication_date").Now(),
	},
	Parents: []Parent{
		parent("family_id", "families", "Family"),
		parent("case_id", "cases", "Case"),
	},
	Search: []string{"family_name", "subject", "message"},
	Filters: []Filter{
		match("type", "All Types"),
		match("status", "All Statuses"),
		byID("family_id"),
	},
	Order:   []Order{{Column: "communication_date", Desc: true}},
	Related: []Related{{Path: "by-family", Field: "family_id"}},
	Stats: []Stat{
		total("total"),
		count("sent", "status = 'Sent'"),
		count("delivered", "status = 'Delivered'"),
		count("failed", "status = 'Failed'"),
	},
}

// Followups are aftercare tasks owed to a family.
var Followups = &Entity{
	Label: "Followup",
	Path:  "followups",
	Table: "followups",
	Fields: []Field{
		integer("family_id"),
		integer("case_id"),
		str("task_type").Req(),
		str("priority").Def("Normal"),
		str("title").Req(),
		str("description").Req(),
		str("assigned_to"),
		day("due_date").Req(),
		day("reminder_date"),
		str("status").Def("Pending"),
		stamp("completed_at"),
		str("completion_notes"),
	},
	Parents: []Parent{
		parent("family_id", "families", "Family"),
		parent("case_id", "cases", "Case"),
	},
	Search: []string{"title", "description"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("priority", "All Priorities"),
		byID("family_id"),
	},
	Order:   []Order{{Column: "due_date"}},
	Related: []Related{{Path: "by-family", Field: "family_id"}},
	Stats: []Stat{
		total("total"),
		count("pending", "status = 'Pending'"),
		count("overdue", "status <> 'Completed' AND due_date < CURRENT_DATE"),
		count("completed", "status = 'Completed'"),
	},
}

// Preneeds are prepaid funeral plans.
var Preneeds = &Entity{
	Label: "Pre-need plan",
	Path:  "preneeds",
	Table: "preneeds",
	Fields: []Field{
		integer("family_id"),
		str("plan_holder_name").Req(),
		day("date_of_birth").Req(),
		str("relationship_to_primary"),
		str("service_type").Req(),
		str("package").Req(),
		doc("service_preferences"),
		money("estimated_cost").Req(),
		money("amount_paid").Def(0),
		str("payment_plan").Req(),
		str("status").Def("Active"),
		str("contract_document"),
		str("special_instructions"),
		str("notes"),
	},
	Parents: []Parent{parent("family_id", "families", "Family")},
	Search:  []string{"plan_holder_name", "service_type"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("payment_plan", "All Plans"),
		byID("family_id"),
	},
	Order:   newestFirst(),
	Related: []Related{{Path: "by-family", Field: "family_id"}},
	Stats: []Stat{
		total("total_plans"),
		count("active_plans", "status = 'Active'"),
		sum("total_value", "estimated_cost", ""),
		sum("total_paid", "amount_paid", ""),
	},
}

// Contacts are enquiries submitted through the public contact form.
var Contacts = &Entity{
	Label: "Contact",
	Path:  "contacts",
	Table: "contacts",
	Fields: []Field{
		str("name").Req(),
		str("email").Req(),
		str("phone"),
		str("message"),
	},
	Search: []string{"name", "email"},
	Order:  newestFirst(),
	Stats:  []Stat{total("total")},
}
