package model

import (
	"time"

	"fdms/internal/ident"
)

var caseJoin = Join{Table: "cases", Alias: "c", On: "c.id = t.case_id"}

func caseDisplay() []Computed {
	return []Computed{
		{Name: "case_number", Expr: "c.case_number", Type: Text},
		{Name: "deceased_name", Expr: "c.first_name || ' ' || c.last_name", Type: Text},
	}
}

var caseSearch = []string{"c.first_name", "c.last_name", "c.case_number"}

var caseByNumber = Parent{Field: "case_number", Table: "cases", Column: "case_number", Label: "Case"}

// Cases are the funeral engagements most other records hang off.
var Cases = &Entity{
	Label: "Case",
	Path:  "cases",
	Table: "cases",
	Fields: []Field{
		str("case_number"),
		str("first_name").Req(),
		str("middle_name"),
		str("last_name").Req(),
		str("photo_url"),
		str("gender"),
		day("date_of_birth"),
		day("date_of_death").Req(),
		str("place_of_death").Req(),
		str("cause_of_death"),
		str("branch").Req(),
		str("service_type"),
		str("priority").Def("Normal"),
		str("status").Def("Intake"),
		str("internal_notes"),
	},
	Code: &Code{
		Field: "case_number",
		Next: func(now time.Time, last string, hasLast bool, _ int64) string {
			return ident.CaseNumber(now, last, hasLast)
		},
	},
	Uniques: []Unique{{Field: "case_number", Message: "Case with this case number already exists"}},
	Search:  []string{"first_name", "last_name", "case_number"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("branch", "All Branches"),
		match("priority", "All Priorities"),
	},
	Order: newestFirst(),
	Stats: []Stat{
		total("total"),
		count("intake", "status = 'Intake'"),
		count("planning", "status = 'Planning'"),
		count("in_progress", "status = 'In Progress'"),
		count("completed", "status = 'Completed'"),
	},
	Echo: []Echo{{Key: "case_number", Fields: []string{"case_number"}}},
}

// Arrangements hold service-planning details for a case.
var Arrangements = &Entity{
	Label: "Arrangement",
	Path:  "arrangements",
	Table: "arrangements",
	Fields: []Field{
		integer("case_id").Req(),
		str("service_package"),
		stamp("service_date"),
		clock("service_time"),
		integer("duration_minutes").Def(120),
		str("venue"),
		integer("estimated_attendees").Def(0),
		str("religious_rite"),
		str("clergy_name"),
		str("clergy_contact"),
		str("special_requests"),
		str("music_preferences"),
		str("eulogy_speakers"),
		flag("package_customized"),
		str("customization_notes"),
		str("approval_status").Def("Pending Approval"),
		flag("is_confirmed"),
	},
	Parents:  []Parent{parent("case_id", "cases", "Case")},
	Joins:    []Join{caseJoin},
	Computed: caseDisplay(),
	Search:   caseSearch,
	Filters: []Filter{
		match("approval_status", "All Statuses"),
		isTrue("is_confirmed"),
		byID("case_id"),
	},
	Order:   newestFirst(),
	Related: []Related{{Path: "by-case", Field: "case_id"}},
	Stats: []Stat{
		total("total"),
		count("pending_approval", "approval_status = 'Pending Approval'"),
		count("approved", "approval_status = 'Approved'"),
		count("confirmed", "is_confirmed"),
	},
}

// ServiceSchedules are the calendar events (viewing, service, committal) of a case.
var ServiceSchedules = &Entity{
	Label: "Schedule",
	Path:  "schedules",
	Table: "service_schedules",
	Fields: []Field{
		integer("case_id").Req(),
		str("event_type").Req(),
		str("title").Req(),
		str("description"),
		str("venue"),
		str("location_details"),
		str("assigned_staff"),
		str("notes"),
		str("setup_notes"),
		stamp("start_datetime").Req(),
		stamp("end_datetime"),
		str("confirmation_status").Def("Pending"),
	},
	Parents:  []Parent{parent("case_id", "cases", "Case")},
	Joins:    []Join{caseJoin},
	Computed: caseDisplay(),
	Search:   []string{"title", "venue", "assigned_staff", "c.case_number"},
	Filters: []Filter{
		match("event_type", "All Types"),
		match("confirmation_status", "All Statuses"),
		byID("case_id"),
	},
	Order:   []Order{{Column: "start_datetime"}},
	Related: []Related{{Path: "by-case", Field: "case_id"}},
	Stats: []Stat{
		total("total"),
		count("confirmed", "confirmation_status = 'Confirmed'"),
		count("pending", "confirmation_status = 'Pending'"),
		count("upcoming", "start_datetime >= now()"),
	},
}

// VenueBookings reserve a venue for a case.
var VenueBookings = &Entity{
	Label: "Venue booking",
	Path:  "venue-bookings",
	Table: "venue_bookings",
	Fields: []Field{
		integer("case_id").Req(),
		str("venue").Req(),
		stamp("booking_date").Req(),
		clock("booking_time"),
		integer("duration_hours").Def(2),
		str("contact_person"),
		str("contact_phone"),
		str("contact_email"),
		money("cost").Def(0),
		str("status").Def("Tentative"),
		str("special_requirements"),
		str("setup_notes"),
		flag("is_paid"),
	},
	Parents:  []Parent{parent("case_id", "cases", "Case")},
	Joins:    []Join{caseJoin},
	Computed: caseDisplay(),
	Search:   append(append([]string{}, caseSearch...), "contact_person"),
	Filters: []Filter{
		match("venue", "All Venues"),
		match("status", "All Statuses"),
		byID("case_id"),
	},
	Order:   []Order{{Column: "booking_date", Desc: true}},
	Related: []Related{{Path: "by-case", Field: "case_id"}},
	Enums:   []Enum{{Path: "venues", Column: "venue"}},
	Stats: []Stat{
		total("total"),
		count("confirmed", "status = 'Confirmed'"),
		count("tentative", "status = 'Tentative'"),
		sum("total_revenue", "cost", ""),
	},
}

// Assignments put a staff member on a case in a given role.
var Assignments = &Entity{
	Label: "Assignment",
	Path:  "assignments",
	Table: "assignments",
	Fields: []Field{
		str("case_number").Req(),
		str("staff_member").Req(),
		str("role").Req(),
		str("instructions"),
		str("status").Def("Pending"),
		stamp("assigned_date").Now().Server(),
	},
	Parents: []Parent{caseByNumber},
	Search:  []string{"staff_member", "role", "case_number"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("role", "All Roles"),
	},
	Order:   []Order{{Column: "assigned_date", Desc: true}},
	Related: []Related{{Path: "by-case", Field: "case_number"}},
	Stats: []Stat{
		total("total"),
		count("pending", "status = 'Pending'"),
		count("in_progress", "status = 'In Progress'"),
		count("completed", "status = 'Completed'"),
	},
	Echo: echoID(),
}

// CaseNotes are free-text journal entries on a case.
var CaseNotes = &Entity{
	Label: "Case note",
	Path:  "case-notes",
	Table: "case_notes",
	Fields: []Field{
		str("case_number").Req(),
		str("note_type").Req(),
		str("content").Req(),
		flag("requires_follow_up"),
		day("follow_up_date"),
		flag("is_private"),
		str("created_by").Req(),
	},
	Parents: []Parent{caseByNumber},
	Search:  []string{"content", "created_by"},
	Filters: []Filter{match("note_type", "All Types")},
	Order:   newestFirst(),
	Related: []Related{{Path: "by-case", Field: "case_number"}},
	Stats: []Stat{
		total("total"),
		count("follow_ups", "requires_follow_up"),
		count("private", "is_private"),
	},
	Echo: echoID(),
}

// NextOfKin are the family contacts recorded against a case.
var NextOfKin = &Entity{
	Label: "Next of kin",
	Path:  "next-of-kin",
	Table: "next_of_kin",
	Fields: []Field{
		str("case_number").Req(),
		str("first_name").Req(),
		str("last_name").Req(),
		str("relationship").Req(),
		str("phone").Req(),
		str("email"),
		str("street_address"),
		str("city"),
		str("state"),
		str("zip_code"),
		flag("is_primary_contact"),
		flag("is_authorized_decision_maker"),
		flag("receive_notifications").Def(true),
		str("notes"),
	},
	Parents: []Parent{caseByNumber},
	Search:  []string{"first_name", "last_name", "phone", "email"},
	Filters: []Filter{match("relationship", "All Relationships")},
	Order:   newestFirst(),
	Related: []Related{{Path: "by-case", Field: "case_number"}},
	Stats: []Stat{
		total("total"),
		count("primary_contacts", "is_primary_contact"),
		count("decision_makers", "is_authorized_decision_maker"),
	},
	Echo: []Echo{{Key: "name", Fields: []string{"first_name", "last_name"}}},
}
