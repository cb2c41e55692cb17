package model

// Products are stocked merchandise (caskets, urns, keepsakes).
var Products = &Entity{
	Label: "Product",
	Path:  "products",
	Table: "products",
	Fields: []Field{
		str("product_id").Req(),
		str("sku").Req(),
		str("product_name").Req(),
		str("category").Req(),
		str("product_type"),
		integer("stock").Def(0),
		money("cost_price").Req(),
		money("selling_price").Req(),
		str("status").Def("Active"),
		str("unit").Def("EACH"),
		str("description"),
		str("supplier"),
		integer("reorder_level").Def(5),
	},
	Uniques: []Unique{
		{Field: "product_id", Message: "Product ID or SKU already exists"},
		{Field: "sku", Message: "Product ID or SKU already exists"},
	},
	Search: []string{"product_name", "sku", "product_id"},
	Filters: []Filter{
		match("category", "All Categories"),
		match("status", "All Statuses"),
	},
	Order: newestFirst(),
	Stats: []Stat{
		total("total_products"),
		count("active_products", "status = 'Active'"),
		count("low_stock", "stock <= reorder_level"),
		sum("inventory_value", "stock * cost_price", ""),
	},
	Echo: []Echo{{Key: "name", Fields: []string{"product_name"}}},
}

// Categories organise products.
var Categories = &Entity{
	Label: "Category",
	Path:  "categories",
	Table: "categories",
	Fields: []Field{
		str("category_id").Req(),
		str("category_name").Req(),
		str("category_type").Req(),
		str("parent_category"),
		str("description"),
		integer("display_order").Def(0),
		str("status").Def("Active"),
	},
	Uniques: []Unique{{Field: "category_id", Message: "Category ID already exists"}},
	Search:  []string{"category_name", "category_id"},
	Filters: []Filter{
		match("category_type", "All Types"),
		match("status", "All Statuses"),
	},
	Order: []Order{{Column: "display_order"}, {Column: "category_name"}},
	Stats: []Stat{
		total("total_categories"),
		count("active_categories", "status = 'Active'"),
	},
}

// Suppliers provide stock.
var Suppliers = &Entity{
	Label: "Supplier",
	Path:  "suppliers",
	Table: "suppliers",
	Fields: []Field{
		str("supplier_id"),
		str("supplier_name").Req(),
		str("contact_person"),
		str("email"),
		str("phone"),
		str("fax"),
		str("location"),
		str("address"),
		str("city"),
		str("state"),
		str("zip_code"),
		str("country"),
		str("tax_id"),
		money("credit_limit"),
		str("categories_supplied"),
		money("rating"),
		money("delivery_reliability"),
		str("status").Def("Active"),
		str("payment_terms"),
		str("website"),
		str("notes"),
	},
	Code:    sequence("supplier_id", "SUP", 4, true),
	Uniques: []Unique{{Field: "supplier_id", Message: "Supplier ID already exists"}},
	Search:  []string{"supplier_name", "supplier_id", "contact_person", "email"},
	Filters: []Filter{match("status", "All Statuses")},
	Order:   []Order{{Column: "supplier_name"}},
	Stats: []Stat{
		total("total_suppliers"),
		count("active_suppliers", "status = 'Active'"),
	},
}

// PurchaseOrders request stock from a supplier.
var PurchaseOrders = &Entity{
	Label: "Purchase order",
	Path:  "purchase-orders",
	Table: "purchase_orders",
	Fields: []Field{
		str("po_number"),
		str("supplier").Req(),
		str("branch"),
		day("order_date").Req(),
		day("expected_delivery"),
		str("status").Def("Draft"),
		doc("order_items"),
		money("tax_amount").Def(0),
		money("shipping_cost").Def(0),
		money("total_amount").Def(0),
		str("notes_to_supplier"),
		str("internal_notes"),
		str("created_by"),
	},
	Code:    sequence("po_number", "PO", 4, true),
	Uniques: []Unique{{Field: "po_number", Message: "PO number already exists"}},
	Search:  []string{"po_number", "supplier"},
	Filters: []Filter{
		match("status", "All Statuses"),
		match("branch", "All Branches"),
		match("supplier", "All Suppliers"),
	},
	Order: newestFirst(),
	Stats: []Stat{
		total("total_orders"),
		count("draft", "status = 'Draft'"),
		count("pending", "status = 'Pending'"),
		count("received", "status = 'Received'"),
		sum("total_value", "total_amount", ""),
	},
}

// StockMovements record stock entering or leaving a branch.
var StockMovements = &Entity{
	Label: "Stock movement",
	Path:  "stock-movements",
	Table: "stock_movements",
	Fields: []Field{
		str("movement_id"),
		str("product").Req(),
		str("product_sku"),
		str("branch").Req(),
		str("movement_type").Req(),
		str("direction").Req(),
		integer("quantity").Req(),
		integer("stock_before"),
		integer("stock_after"),
		str("purchase_order"),
		str("case_id"),
		str("reason"),
		stamp("movement_date").Now(),
		str("additional_notes"),
	},
	Code:    sequence("movement_id", "MOV", 4, true),
	Uniques: []Unique{{Field: "movement_id", Message: "Movement ID already exists"}},
	Search:  []string{"movement_id", "product", "product_sku"},
	Filters: []Filter{
		match("movement_type", "All Types"),
		match("direction", "All Directions"),
		match("branch", "All Branches"),
	},
	Order: []Order{{Column: "movement_date", Desc: true}},
	Stats: []Stat{
		total("total_movements"),
		sum("stock_in", "quantity", "direction = 'IN'"),
		sum("stock_out", "quantity", "direction = 'OUT'"),
	},
}

// ServiceAddons are optional extras sold with a service package.
var ServiceAddons = &Entity{
	Label: "Service add-on",
	Path:  "service-addons",
	Table: "service_addons",
	Fields: []Field{
		str("name").Req(),
		str("category"),
		str("description"),
		money("unit_price"),
		str("unit_of_measure"),
		flag("tax_applicable"),
		flag("requires_inventory_check"),
		integer("current_stock_quantity"),
		integer("minimum_stock_level"),
		str("supplier_name"),
		str("supplier_contact"),
		str("supplier_notes"),
		integer("display_order").Def(0),
		flag("is_active").Def(true),
	},
	Search: []string{"name", "description"},
	Filters: []Filter{
		match("category", "All Categories"),
		{
			Param:    "status",
			Column:   "is_active",
			Kind:     Exact,
			Sentinel: "All Statuses",
			Values:   map[string]any{"Active": true, "Inactive": false},
		},
	},
	Order: []Order{{Column: "display_order"}, {Column: "name"}},
	Enums: []Enum{{Path: "categories", Column: "category"}},
	Stats: []Stat{
		total("total"),
		count("active", "is_active"),
		distinct("categories", "category"),
		avg("avg_price", "unit_price", ""),
	},
}
