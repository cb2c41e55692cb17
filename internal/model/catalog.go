package model

import "sync"

// Catalog returns every entity in dependency order: parents precede the tables that reference them.
func Catalog() []*Entity {
	catalogOnce.Do(func() {
		catalog = []*Entity{
			Cases,
			Staff,
			Vehicles,
			Families,
			Invoices,
			Payments,
			DocumentTypes,
			Arrangements,
			ServiceSchedules,
			VenueBookings,
			Assignments,
			CaseNotes,
			NextOfKin,
			StaffSchedules,
			TimeLogs,
			Tasks,
			FuelLogs,
			VehicleAssignments,
			Expenses,
			Transactions,
			Communications,
			Followups,
			Preneeds,
			Products,
			Categories,
			Suppliers,
			PurchaseOrders,
			StockMovements,
			ServiceAddons,
			Documents,
			DocumentTemplates,
			Contacts,
		}
	})
	return catalog
}

var (
	catalogOnce sync.Once
	catalog     []*Entity
)

func str(name string) Field     { return Field{Name: name, Type: Text} }
func integer(name string) Field { return Field{Name: name, Type: Integer} }
func money(name string) Field   { return Field{Name: name, Type: Decimal} }
func flag(name string) Field    { return Field{Name: name, Type: Boolean, Default: false} }
func day(name string) Field     { return Field{Name: name, Type: Date} }
func clock(name string) Field   { return Field{Name: name, Type: Time} }
func stamp(name string) Field   { return Field{Name: name, Type: Timestamp} }
func doc(name string) Field     { return Field{Name: name, Type: JSON} }

func match(param, sentinel string) Filter {
	return Filter{Param: param, Column: param, Kind: Exact, Sentinel: sentinel}
}

func matchOn(param, column, sentinel string) Filter {
	return Filter{Param: param, Column: column, Kind: Exact, Sentinel: sentinel}
}

func like(param, column string) Filter {
	return Filter{Param: param, Column: column, Kind: Contains}
}

func isTrue(param string) Filter {
	return Filter{Param: param, Column: param, Kind: BoolMatch}
}

func byID(param string) Filter {
	return Filter{Param: param, Column: param, Kind: IntMatch}
}

func total(name string) Stat { return Stat{Name: name, Kind: Count} }

func count(name, where string) Stat { return Stat{Name: name, Kind: Count, Where: where} }

func sum(name, expr, where string) Stat {
	return Stat{Name: name, Kind: Sum, Expr: expr, Where: where}
}

func avg(name, expr, where string) Stat {
	return Stat{Name: name, Kind: Avg, Expr: expr, Where: where}
}

func distinct(name, expr string) Stat { return Stat{Name: name, Kind: CountDistinct, Expr: expr} }

func diff(name, a, b string) Stat { return Stat{Name: name, Kind: Difference, Of: [2]string{a, b}} }

func newestFirst() []Order { return []Order{{Column: "created_at", Desc: true}} }

func echoID() []Echo { return []Echo{{Key: "id", Fields: []string{"id"}}} }

func parent(field, table, label string) Parent {
	return Parent{Field: field, Table: table, Column: "id", Label: label}
}
