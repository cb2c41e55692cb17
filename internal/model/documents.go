package model

// Documents are uploaded files. The object itself lives in object storage under FilePath.
var Documents = &Entity{
	Label: "Document",
	Path:  "documents",
	Table: "documents",
	Fields: []Field{
		str("title").Req(),
		str("description"),
		str("document_type").Req(),
		str("file_name").Req(),
		str("file_path").Req(),
		integer("file_size").Req(),
		str("file_type").Req(),
		str("mime_type"),
		integer("case_id"),
		str("client_name"),
		str("status").Def("Draft"),
		str("visibility").Def("Private"),
		str("tags"),
		str("uploaded_by"),
	},
	Parents: []Parent{parent("case_id", "cases", "Case")},
	Search:  []string{"title", "description", "tags", "client_name"},
	Filters: []Filter{
		match("document_type", "All Types"),
		match("status", "All Statuses"),
		match("visibility", "All"),
		byID("case_id"),
	},
	Order: newestFirst(),
	Enums: []Enum{{Path: "types", Column: "document_type"}},
	Stats: []Stat{
		total("total"),
		count("draft", "status = 'Draft'"),
		count("approved", "status = 'Approved'"),
		sum("total_storage_mb", "file_size / 1048576.0", ""),
	},
	SoftDelete: true,
}

// DocumentTypes classify documents and carry their retention policy.
var DocumentTypes = &Entity{
	Label: "Document type",
	Path:  "document-types",
	Table: "document_types",
	Fields: []Field{
		str("name").Req(),
		str("description"),
		str("category").Req(),
		str("allowed_extensions"),
		integer("max_size_mb"),
		integer("retention_years"),
		flag("require_signature"),
		flag("require_approval"),
		str("status").Def("Active"),
	},
	Uniques: []Unique{{Field: "name", Message: "Document type with this name already exists"}},
	Computed: []Computed{{
		Name: "document_count",
		Expr: "(SELECT COUNT(*) FROM documents d WHERE d.document_type = t.name AND d.is_deleted = FALSE)",
		Type: Integer,
	}},
	Search: []string{"name"},
	Filters: []Filter{
		match("category", "All Categories"),
		match("status", "All Statuses"),
	},
	Order: newestFirst(),
	Enums: []Enum{{Path: "categories", Column: "category"}},
	Stats: []Stat{
		total("total_types"),
		count("active_types", "status = 'Active'"),
		count("require_signature", "require_signature"),
		count("require_approval", "require_approval"),
	},
	SoftDelete: true,
}

// DocumentTemplates are reusable document bodies, optionally bound to a type.
var DocumentTemplates = &Entity{
	Label: "Document template",
	Path:  "document-templates",
	Table: "document_templates",
	Fields: []Field{
		str("name").Req(),
		str("template_type").Req(),
		integer("document_type_id"),
		str("content"),
		str("file_path"),
		str("description"),
		str("status").Def("Active"),
	},
	Parents: []Parent{{
		Field:      "document_type_id",
		Table:      "document_types",
		Column:     "id",
		Label:      "Document type",
		SoftDelete: true,
	}},
	Joins:    []Join{{Table: "document_types", Alias: "dt", On: "dt.id = t.document_type_id"}},
	Computed: []Computed{{Name: "document_type_name", Expr: "dt.name", Type: Text}},
	Search:   []string{"name"},
	Filters: []Filter{
		match("template_type", "All Types"),
		match("status", "All Statuses"),
	},
	Order: newestFirst(),
	Enums: []Enum{{Path: "types", Column: "template_type"}},
	Stats: []Stat{
		total("total_templates"),
		count("active_templates", "status = 'Active'"),
		count("word_templates", "template_type = 'Word'"),
		count("pdf_templates", "template_type = 'PDF'"),
	},
	SoftDelete: true,
}
