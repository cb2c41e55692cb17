package model

var vehicleJoin = Join{Table: "vehicles", Alias: "v", On: "v.id = t.vehicle_id"}

func vehicleDisplay() []Computed {
	return []Computed{
		{Name: "vehicle_name", Expr: "v.make || ' ' || v.model", Type: Text},
		{Name: "license_plate", Expr: "v.license_plate", Type: Text},
	}
}

// Vehicles is the fleet: hearses, limousines, removal vans.
var Vehicles = &Entity{
	Label: "Vehicle",
	Path:  "vehicles",
	Table: "vehicles",
	Fields: []Field{
		str("vehicle_type").Req(),
		str("branch"),
		str("make").Req(),
		str("model").Req(),
		integer("year").Req(),
		str("color"),
		str("vin").Req(),
		str("license_plate").Req(),
		str("fuel_type"),
		money("tank_capacity"),
		integer("seating_capacity"),
		money("cargo_capacity"),
		str("status").Def("Available"),
		str("condition").Def("Good"),
		str("ownership_type").Def("Owned"),
		integer("current_mileage"),
		integer("purchase_mileage"),
		money("purchase_price"),
		day("purchase_date"),
		money("monthly_lease_amount"),
		str("insurance_company"),
		str("policy_number"),
		day("insurance_expiry_date"),
		day("registration_expiry_date"),
		day("last_service_date"),
		integer("last_service_mileage"),
		day("next_service_due_date"),
		integer("next_service_due_mileage"),
		str("notes"),
		flag("is_active").Def(true),
	},
	Uniques: []Unique{{Field: "vin", Message: "Vehicle with this VIN already exists"}},
	Search:  []string{"make", "model", "vin", "license_plate"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("vehicle_type", "All Types"),
		match("branch", "All Branches"),
		matchOn("ownership", "ownership_type", "All Types"),
	},
	Order: []Order{{Column: "make"}, {Column: "model"}},
	Enums: []Enum{
		{Path: "vehicle-types", Column: "vehicle_type"},
		{Path: "branches", Column: "branch"},
	},
	StatsScope: "is_active",
	Stats: []Stat{
		total("total"),
		count("available", "status = 'Available'"),
		count("in_use", "status = 'In Use'"),
		count("maintenance", "status = 'Maintenance'"),
	},
}

// FuelLogs record refuelling of a vehicle.
var FuelLogs = &Entity{
	Label: "Fuel log",
	Path:  "fuel-logs",
	Table: "fuel_logs",
	Fields: []Field{
		integer("vehicle_id").Req(),
		day("date").Req(),
		str("fuel_type").Req(),
		money("quantity").Req(),
		money("cost").Req(),
		str("station"),
		integer("odometer_reading"),
		money("mpg"),
		str("notes"),
	},
	Parents:  []Parent{parent("vehicle_id", "vehicles", "Vehicle")},
	Joins:    []Join{vehicleJoin},
	Computed: vehicleDisplay(),
	Search:   []string{"v.make", "v.model", "v.license_plate", "station", "CAST(t.id AS TEXT)"},
	Filters: []Filter{
		match("fuel_type", "All Types"),
		byID("vehicle_id"),
	},
	Order:   []Order{{Column: "date", Desc: true}},
	Related: []Related{{Path: "by-vehicle", Field: "vehicle_id"}},
	Enums:   []Enum{{Path: "fuel-types", Column: "fuel_type"}},
	Stats: []Stat{
		total("total_logs"),
		sum("total_fuel", "quantity", ""),
		sum("total_cost", "cost", ""),
		avg("avg_mpg", "mpg", ""),
	},
}

// VehicleAssignments book a vehicle for a transfer or service run.
var VehicleAssignments = &Entity{
	Label: "Vehicle assignment",
	Path:  "vehicle-assignments",
	Table: "vehicle_assignments",
	Fields: []Field{
		integer("vehicle_id").Req(),
		str("assignment_type").Req(),
		str("case_reference"),
		str("service_reference"),
		stamp("scheduled_start").Req(),
		stamp("scheduled_end").Req(),
		stamp("actual_start"),
		stamp("actual_end"),
		str("pickup_location").Req(),
		str("dropoff_location").Req(),
		money("estimated_distance"),
		money("actual_distance"),
		str("driver"),
		str("backup_driver"),
		integer("start_mileage"),
		integer("end_mileage"),
		str("status").Def("Scheduled"),
		str("priority").Def("Normal"),
		str("notes"),
	},
	Parents:  []Parent{parent("vehicle_id", "vehicles", "Vehicle")},
	Joins:    []Join{vehicleJoin},
	Computed: vehicleDisplay(),
	Search:   []string{"case_reference", "service_reference", "driver", "pickup_location", "dropoff_location"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("assignment_type", "All Types"),
		byID("vehicle_id"),
	},
	Order:   []Order{{Column: "scheduled_start", Desc: true}},
	Related: []Related{{Path: "by-vehicle", Field: "vehicle_id"}},
	Enums:   []Enum{{Path: "assignment-types", Column: "assignment_type"}},
	Stats: []Stat{
		total("total"),
		count("scheduled", "status = 'Scheduled'"),
		count("in_progress", "status = 'In Progress'"),
		count("completed", "status = 'Completed'"),
	},
}
