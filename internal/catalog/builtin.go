package catalog

import "github.com/mpataki/agentbuilder/internal/models"

var builtinSources = []models.KnowledgeSource{
	{
		ID:          "ks-hr-policies",
		Name:        "HR Policies",
		Description: "Company policies covering leave, conduct, benefits and compensation",
		Kind:        models.SourceKindUpload,
		Tags:        []string{"hr", "policy", "benefits", "leave", "pto"},
	},
	{
		ID:          "ks-employee-handbook",
		Name:        "Employee Handbook",
		Description: "The official handbook for every employee, including workplace guidelines",
		Kind:        models.SourceKindUpload,
		Tags:        []string{"handbook", "employee", "guidelines"},
	},
	{
		ID:          "ks-onboarding-guide",
		Name:        "Onboarding Guide",
		Description: "Step by step guide for new hires during their first weeks",
		Kind:        models.SourceKindUpload,
		Tags:        []string{"onboarding", "new hire", "orientation"},
	},
	{
		ID:          "ks-benefits-overview",
		Name:        "Benefits Overview",
		Description: "Health insurance, retirement plans and perks summary",
		Kind:        models.SourceKindUpload,
		Tags:        []string{"benefits", "insurance", "401k", "perks"},
	},
	{
		ID:          "ks-it-knowledge-base",
		Name:        "IT Knowledge Base",
		Description: "Troubleshooting articles for laptops, software, network and password issues",
		Kind:        models.SourceKindConnection,
		Tags:        []string{"it", "technical", "password", "software", "laptop"},
	},
	{
		ID:          "ks-security-policies",
		Name:        "Security Policies",
		Description: "Information security, access control and compliance requirements",
		Kind:        models.SourceKindUpload,
		Tags:        []string{"security", "compliance", "access"},
	},
	{
		ID:          "ks-confluence",
		Name:        "Confluence",
		Description: "Team wiki pages and engineering documentation",
		Kind:        models.SourceKindConnection,
		Tags:        []string{"wiki", "documentation", "engineering"},
	},
	{
		ID:          "ks-sharepoint",
		Name:        "SharePoint",
		Description: "Shared company documents, forms and templates",
		Kind:        models.SourceKindConnection,
		Tags:        []string{"documents", "forms", "templates"},
	},
	{
		ID:          "ks-sales-playbook",
		Name:        "Sales Playbook",
		Description: "Pricing guidance, objection handling and customer messaging",
		Kind:        models.SourceKindUpload,
		Tags:        []string{"sales", "pricing", "customer"},
	},
	{
		ID:          "ks-facilities-faq",
		Name:        "Facilities FAQ",
		Description: "Office locations, parking, desk booking and building access",
		Kind:        models.SourceKindUpload,
		Tags:        []string{"facilities", "office", "parking"},
	},
}

var builtinWorkflows = []models.Workflow{
	{ID: "wf-reset-password", Name: "Reset Password", Description: "Reset a user's directory password and send a temporary one", Category: "IT"},
	{ID: "wf-unlock-account", Name: "Unlock Account", Description: "Unlock a locked user account after verification", Category: "IT"},
	{ID: "wf-create-ticket", Name: "Create IT Ticket", Description: "Open a helpdesk ticket with the reported issue", Category: "IT", LinkedAgent: "IT Helpdesk"},
	{ID: "wf-request-access", Name: "Request Access", Description: "Request access to an application or shared drive", Category: "IT"},
	{ID: "wf-submit-pto", Name: "Submit PTO Request", Description: "File a paid time off request for manager approval", Category: "HR", LinkedAgent: "HR Assistant"},
	{ID: "wf-update-address", Name: "Update Address", Description: "Update an employee's home address in the HR system", Category: "HR"},
	{ID: "wf-order-equipment", Name: "Order Equipment", Description: "Order a laptop, monitor or other equipment", Category: "Procurement"},
	{ID: "wf-schedule-onboarding", Name: "Schedule Onboarding", Description: "Book orientation sessions for a new hire", Category: "HR"},
	{ID: "wf-birthday-celebration", Name: "Birthday Celebration", Description: "Send a birthday card and notify the team", Category: "Culture"},
}

var builtinIcons = []models.Icon{
	{ID: "bot", Name: "Bot", Glyph: "🤖"},
	{ID: "book", Name: "Book", Glyph: "📘"},
	{ID: "gear", Name: "Gear", Glyph: "⚙"},
	{ID: "chat", Name: "Chat", Glyph: "💬"},
	{ID: "shield", Name: "Shield", Glyph: "🛡"},
	{ID: "star", Name: "Star", Glyph: "★"},
}

var builtinColors = []models.IconColor{
	{ID: "blue", Name: "Blue", Hex: "#3B82F6"},
	{ID: "green", Name: "Green", Hex: "#22C55E"},
	{ID: "purple", Name: "Purple", Hex: "#A855F7"},
	{ID: "orange", Name: "Orange", Hex: "#F97316"},
	{ID: "pink", Name: "Pink", Hex: "#EC4899"},
}

const (
	DefaultIconID      = "bot"
	DefaultIconColorID = "blue"
)

// Builtin returns the mock catalogs shipped with the binary.
func Builtin() *Static {
	return NewStatic(builtinSources, builtinWorkflows, builtinIcons, builtinColors)
}
