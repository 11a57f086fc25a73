package schema

// TableDefinitions contains all the SQL statements to create the database tables.
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS batches (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		template_id UUID NOT NULL,
		email_config_id UUID NOT NULL,
		status VARCHAR(20) NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP,
		interval_minutes INTEGER NOT NULL DEFAULT 0,
		sub_cycle_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		sub_cycle_interval_minutes INTEGER NOT NULL DEFAULT 0,
		auto_complete_on_all_received BOOLEAN NOT NULL DEFAULT FALSE,
		next_sub_cycle_time TIMESTAMP,
		total_recipients INTEGER NOT NULL DEFAULT 0,
		emails_sent INTEGER NOT NULL DEFAULT 0,
		emails_failed INTEGER NOT NULL DEFAULT 0,
		sub_cycles_completed INTEGER NOT NULL DEFAULT 0,
		support_fields JSONB,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS batch_recipients (
		id UUID PRIMARY KEY,
		batch_id UUID NOT NULL,
		email VARCHAR(255) NOT NULL,
		name VARCHAR(255),
		emails_sent_count INTEGER NOT NULL DEFAULT 0,
		last_email_sent_at TIMESTAMP,
		next_email_due_at TIMESTAMP,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMP,
		documents_received BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (batch_id, email)
	)`,
	`CREATE TABLE IF NOT EXISTS reminder_groups (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		id UUID PRIMARY KEY,
		group_id UUID NOT NULL,
		email VARCHAR(255) NOT NULL,
		name VARCHAR(255)
	)`,
	`CREATE TABLE IF NOT EXISTS batch_groups (
		batch_id UUID NOT NULL,
		group_id UUID NOT NULL,
		PRIMARY KEY (batch_id, group_id)
	)`,
	`CREATE TABLE IF NOT EXISTS legacy_recipient_status (
		id UUID PRIMARY KEY,
		batch_id UUID NOT NULL,
		email VARCHAR(255) NOT NULL,
		name VARCHAR(255),
		emails_sent_count INTEGER NOT NULL DEFAULT 0,
		last_email_sent_at TIMESTAMP,
		next_email_due_at TIMESTAMP,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMP,
		documents_received BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (batch_id, email)
	)`,
	`CREATE TABLE IF NOT EXISTS send_attempts (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		batch_id UUID NOT NULL,
		recipient_email VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL,
		attempt INTEGER NOT NULL DEFAULT 1,
		error_message TEXT,
		correlation_id VARCHAR(64),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS email_configurations (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		host VARCHAR(255) NOT NULL,
		port INTEGER NOT NULL,
		username VARCHAR(255),
		encrypted_password TEXT,
		from_email VARCHAR(255) NOT NULL,
		from_name VARCHAR(255),
		use_tls BOOLEAN NOT NULL DEFAULT TRUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		rate_limit_per_hour INTEGER NOT NULL DEFAULT 0,
		rate_limit_per_minute INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS reminder_templates (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		subject TEXT NOT NULL,
		body TEXT NOT NULL,
		is_html BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS dispatch_tasks (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		batch_id UUID NOT NULL,
		kind VARCHAR(30) NOT NULL,
		status VARCHAR(20) NOT NULL,
		recipient_email VARCHAR(255),
		recipient_name VARCHAR(255),
		source VARCHAR(10),
		send_attempt INTEGER NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 3,
		last_error TEXT,
		next_run_after TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		processed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_batches_tenant_id ON batches (tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_batches_status_start ON batches (status, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_batches_next_sub_cycle ON batches (next_sub_cycle_time) WHERE next_sub_cycle_time IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_batch_recipients_batch_id ON batch_recipients (batch_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members (group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_legacy_status_batch_id ON legacy_recipient_status (batch_id)`,
	`CREATE INDEX IF NOT EXISTS idx_send_attempts_tenant_created ON send_attempts (tenant_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_send_attempts_batch_id ON send_attempts (batch_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dispatch_tasks_claim ON dispatch_tasks (status, next_run_after, created_at)`,
}
