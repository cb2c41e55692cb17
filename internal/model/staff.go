package model

// Staff are employees of the funeral home.
var Staff = &Entity{
	Label: "Staff member",
	Path:  "staff",
	Table: "staff",
	Fields: []Field{
		str("first_name").Req(),
		str("middle_name"),
		str("last_name").Req(),
		day("date_of_birth"),
		str("ssn"),
		str("email").Req(),
		str("primary_phone"),
		str("secondary_phone"),
		str("address_line1"),
		str("address_line2"),
		str("city"),
		str("state"),
		str("zip_code"),
		str("emergency_contact_name"),
		str("emergency_contact_relationship"),
		str("emergency_contact_phone"),
		str("branch"),
		str("department").Req(),
		str("position").Req(),
		str("employment_type").Req(),
		str("status").Def("Active"),
		day("hire_date").Req(),
		day("termination_date"),
		money("hourly_rate"),
		money("annual_salary"),
		integer("max_hours_per_week"),
		flag("can_work_weekends"),
		flag("can_work_nights"),
		flag("can_work_holidays"),
		money("performance_rating"),
		day("last_review_date"),
		day("next_review_date"),
		str("notes"),
		flag("is_active").Def(true),
	},
	Uniques: []Unique{{Field: "email", Message: "Email already exists"}},
	Search:  []string{"first_name", "last_name", "email", "position"},
	Filters: []Filter{
		match("department", "All Departments"),
		match("employment_type", "All Types"),
		match("status", "All Statuses"),
		match("branch", "All Branches"),
	},
	Order: newestFirst(),
	Enums: []Enum{{Path: "departments", Column: "department"}},
	Stats: []Stat{
		total("total_staff"),
		count("active_staff", "status = 'Active'"),
		count("full_time", "employment_type = 'Full-Time' AND status = 'Active'"),
		count("part_time", "employment_type = 'Part-Time' AND status = 'Active'"),
	},
	Echo: echoID(),
}

var staffParent = parent("staff_member_id", "staff", "Staff member")

// StaffSchedules are planned shifts.
var StaffSchedules = &Entity{
	Label: "Staff schedule",
	Path:  "staff-schedules",
	Table: "staff_schedules",
	Fields: []Field{
		integer("staff_member_id").Req(),
		str("staff_member_name").Req(),
		day("shift_date").Req(),
		str("shift_type").Req(),
		str("status").Def("Scheduled"),
		clock("start_time").Req(),
		clock("end_time").Req(),
		integer("break_duration").Def(30),
		flag("is_overtime"),
		flag("is_holiday"),
		str("notes"),
	},
	Parents: []Parent{staffParent},
	Search:  []string{"staff_member_name"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("shift_type", "All Types"),
		like("staff_member", "staff_member_name"),
		byID("staff_member_id"),
	},
	Order: []Order{{Column: "shift_date", Desc: true}},
	Stats: []Stat{
		total("total_schedules"),
		count("scheduled", "status = 'Scheduled'"),
		count("completed", "status = 'Completed'"),
		count("overtime_shifts", "is_overtime"),
	},
}

// TimeLogs are clock-in/clock-out records used for payroll.
var TimeLogs = &Entity{
	Label: "Time log",
	Path:  "time-logs",
	Table: "time_logs",
	Fields: []Field{
		integer("staff_member_id").Req(),
		str("staff_member_name").Req(),
		day("log_date").Req(),
		str("log_type").Req(),
		integer("related_schedule_id"),
		stamp("clock_in").Req(),
		stamp("clock_out"),
		integer("break_duration").Def(0),
		money("hours_worked").Def(0),
		str("status").Def("Pending Approval"),
		money("hourly_rate"),
		money("total_pay"),
		flag("is_overtime"),
		flag("is_holiday_pay"),
		str("notes"),
	},
	Parents: []Parent{
		staffParent,
		parent("related_schedule_id", "staff_schedules", "Staff schedule"),
	},
	Search: []string{"staff_member_name"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("log_type", "All Types"),
		like("staff_member", "staff_member_name"),
		byID("staff_member_id"),
	},
	Order: []Order{{Column: "log_date", Desc: true}},
	Stats: []Stat{
		total("total_logs"),
		sum("total_hours", "hours_worked", ""),
		sum("total_pay", "total_pay", ""),
		sum("overtime_hours", "hours_worked", "is_overtime"),
	},
}

// Tasks are internal to-dos, optionally tied to a case or client.
var Tasks = &Entity{
	Label: "Task",
	Path:  "tasks",
	Table: "tasks",
	Fields: []Field{
		str("title").Req(),
		str("description").Req(),
		str("category").Req(),
		str("priority").Def("Medium Priority"),
		str("status").Def("Pending"),
		str("case_reference"),
		str("client_reference"),
		str("branch"),
		day("due_date").Req(),
		clock("due_time"),
		money("estimated_hours"),
		money("actual_hours"),
		str("supervisor"),
		flag("supervision_required"),
		str("notes"),
	},
	Search: []string{"title", "description", "case_reference", "client_reference"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("priority", "All Priorities"),
		match("category", "All Categories"),
	},
	Order: []Order{{Column: "due_date"}, {Column: "created_at", Desc: true}},
	Stats: []Stat{
		total("total_tasks"),
		count("pending", "status = 'Pending'"),
		count("in_progress", "status = 'In Progress'"),
		count("completed", "status = 'Completed'"),
	},
	Echo: echoID(),
}
