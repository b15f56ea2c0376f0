package authz

const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleAnonymous = "anonymous"
)

const (
	ActionRead  = "read"
	ActionWrite = "write"
	ActionAdmin = "admin"
)

const (
	ObjectSchemaCategories = "schema.categories"
	ObjectSchemaFields     = "schema.fields"
	ObjectCauseCauses      = "cause.causes"
	ObjectCauseValues      = "cause.values"
)
