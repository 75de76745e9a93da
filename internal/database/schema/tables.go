// Package schema holds the table definitions bootstrapped at startup.
package schema

// TableDefinitions contains all the SQL statements to create the database tables
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS channels (
		id VARCHAR(64) PRIMARY KEY,
		org_id VARCHAR(64) NOT NULL,
		external_page_id VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(255),
		access_token_encrypted TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS lead_forms (
		id VARCHAR(64) PRIMARY KEY,
		channel_id VARCHAR(64) NOT NULL,
		external_form_id VARCHAR(64) NOT NULL,
		name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (channel_id, external_form_id)
	)`,
	`CREATE TABLE IF NOT EXISTS ingest_routes (
		id VARCHAR(64) PRIMARY KEY,
		org_id VARCHAR(64) NOT NULL,
		channel_id VARCHAR(64) NOT NULL,
		form_id VARCHAR(64),
		workspace_id VARCHAR(64) NOT NULL,
		pipeline_id VARCHAR(64) NOT NULL,
		stage_id VARCHAR(64) NOT NULL,
		assignee_id VARCHAR(64),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS ingest_field_mappings (
		id VARCHAR(64) PRIMARY KEY,
		route_id VARCHAR(64) NOT NULL,
		source_field VARCHAR(255) NOT NULL,
		target_field VARCHAR(32) NOT NULL,
		transform VARCHAR(32),
		UNIQUE (route_id, source_field)
	)`,
	`CREATE TABLE IF NOT EXISTS raw_lead_events (
		id UUID PRIMARY KEY,
		external_lead_id VARCHAR(64) NOT NULL UNIQUE,
		org_id VARCHAR(64) NOT NULL,
		channel_id VARCHAR(64) NOT NULL,
		form_id VARCHAR(64),
		ad_id VARCHAR(64),
		adset_id VARCHAR(64),
		campaign_id VARCHAR(64),
		payload JSONB NOT NULL,
		field_data JSONB,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		retry_count INTEGER NOT NULL DEFAULT 0,
		processing_started_at TIMESTAMPTZ,
		error_message TEXT,
		failure_kind VARCHAR(20),
		contact_id UUID,
		opportunity_id UUID,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		fetched_at TIMESTAMPTZ,
		processed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id UUID PRIMARY KEY,
		workspace_id VARCHAR(64) NOT NULL,
		first_name VARCHAR(255),
		last_name VARCHAR(255),
		email VARCHAR(255),
		phone VARCHAR(50),
		company VARCHAR(255),
		position VARCHAR(255),
		source VARCHAR(32),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS opportunities (
		id UUID PRIMARY KEY,
		workspace_id VARCHAR(64) NOT NULL,
		contact_id UUID NOT NULL,
		pipeline_id VARCHAR(64) NOT NULL,
		stage_id VARCHAR(64) NOT NULL,
		title VARCHAR(255) NOT NULL,
		assignee_id VARCHAR(64),
		source VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS opportunity_stage_history (
		id UUID PRIMARY KEY,
		opportunity_id UUID NOT NULL,
		from_stage_id VARCHAR(64),
		to_stage_id VARCHAR(64) NOT NULL,
		changed_at TIMESTAMPTZ NOT NULL,
		reason VARCHAR(64) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lead_attributions (
		id UUID PRIMARY KEY,
		workspace_id VARCHAR(64) NOT NULL,
		contact_id UUID NOT NULL,
		raw_event_id UUID NOT NULL,
		channel_id VARCHAR(64) NOT NULL,
		form_id VARCHAR(64),
		ad_id VARCHAR(64),
		ad_name VARCHAR(255),
		adset_id VARCHAR(64),
		adset_name VARCHAR(255),
		campaign_id VARCHAR(64),
		campaign_name VARCHAR(255),
		platform VARCHAR(32),
		is_organic BOOLEAN NOT NULL DEFAULT FALSE,
		payload JSONB,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY,
		org_id VARCHAR(64) NOT NULL,
		workspace_id VARCHAR(64) NOT NULL,
		action VARCHAR(64) NOT NULL,
		entity_type VARCHAR(32) NOT NULL,
		entity_id VARCHAR(64) NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		workspace_id VARCHAR(64) NOT NULL,
		event_type VARCHAR(64) NOT NULL,
		aggregate_type VARCHAR(32) NOT NULL,
		aggregate_id VARCHAR(64) NOT NULL,
		payload JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL,
		published_at TIMESTAMPTZ,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT
	)`,
}

// IndexDefinitions run after every table exists
var IndexDefinitions = []string{
	`CREATE INDEX IF NOT EXISTS idx_raw_lead_events_retryable ON raw_lead_events (created_at) WHERE status IN ('pending', 'failed')`,
	`CREATE INDEX IF NOT EXISTS idx_raw_lead_events_processing ON raw_lead_events (processing_started_at) WHERE status = 'processing'`,
	`CREATE INDEX IF NOT EXISTS idx_raw_lead_events_failure_kind ON raw_lead_events (failure_kind, updated_at DESC) WHERE status = 'failed'`,
	`CREATE INDEX IF NOT EXISTS idx_ingest_routes_channel ON ingest_routes (channel_id, created_at) WHERE is_active = TRUE`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_workspace_email ON contacts (workspace_id, lower(email))`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_workspace_phone ON contacts (workspace_id, regexp_replace(phone, '[^0-9+]', '', 'g'))`,
	`CREATE INDEX IF NOT EXISTS idx_opportunities_contact ON opportunities (contact_id)`,
	`CREATE INDEX IF NOT EXISTS idx_lead_attributions_contact ON lead_attributions (contact_id)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_unpublished ON outbox_events (created_at) WHERE published_at IS NULL`,
}

// TableNames lists the tables in creation order
var TableNames = []string{
	"channels",
	"lead_forms",
	"ingest_routes",
	"ingest_field_mappings",
	"raw_lead_events",
	"contacts",
	"opportunities",
	"opportunity_stage_history",
	"lead_attributions",
	"audit_logs",
	"outbox_events",
}
