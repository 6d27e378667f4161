package enum

// ── State machines (CHECK constrained in DB) ──

const (
	NewsStatusDraft     = "DRAFT"
	NewsStatusPublished = "PUBLISHED"
	NewsStatusArchived  = "ARCHIVED"
)

const (
	AnnouncementPriorityInfo      = "INFO"
	AnnouncementPriorityImportant = "PENTING"
	AnnouncementPriorityUrgent    = "DARURAT"
)

// ── Access control (CHECK constrained in DB) ──

const (
	UserRoleSuperadmin = "SUPERADMIN"
	UserRoleAdmin      = "ADMIN"
)

// ── Navigation (CHECK constrained in DB) ──

const (
	MenuLocationHeader = "HEADER"
	MenuLocationFooter = "FOOTER"
)

// ── Chat transcript roles (client-side convention, no DB constraint) ──

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ── WebSocket channels ──

const (
	ChannelContent  = "content"
	ChannelSettings = "settings"
)
