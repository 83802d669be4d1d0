package schema

// Code search field configuration. Hierarchical priority: repository scoping
// (required), then semantic themes, then refinement filters. Fields left
// without a condition are indexed but not exposed as tool parameters.
var codeFields = []Field{
	{
		Name:        "repository_id",
		Description: "Repository identifier in format 'owner/repo'",
		Type:        Keyword,
		Condition:   Eq,
		Required:    true,
	},
	{
		Name:        "themes",
		Description: "Code themes/patterns array; matches any provided theme (e.g. 'authentication', 'database', 'api')",
		Type:        Text,
		Condition:   Any,
	},
	{
		Name:        "programming_language",
		Description: "Programming language (e.g. 'typescript', 'python', 'go')",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "file_type",
		Description: "File extension/type (e.g. 'ts', 'py', 'md')",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "directory",
		Description: "Directory path within the repository (e.g. 'src/lib/auth')",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "file_name",
		Description: "Specific file name (e.g. 'auth.py')",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "has_code_patterns",
		Description: "Whether the chunk contains identifiable code patterns (true/false)",
		Type:        Boolean,
		Condition:   Eq,
	},
	{
		Name:        "has_comments",
		Description: "Whether the chunk contains comments (true/false)",
		Type:        Boolean,
		Condition:   Eq,
	},
	{
		Name:        "complexity_score",
		Description: "Minimum code complexity score (higher = more complex)",
		Type:        Numeric,
		Condition:   Gte,
	},
	{
		Name:        "size",
		Description: "Minimum file size in bytes",
		Type:        Numeric,
		Condition:   Gte,
	},
	{
		Name:        "line_count",
		Description: "Minimum number of lines in the chunk",
		Type:        Numeric,
		Condition:   Gte,
	},
	{
		Name:        "word_count",
		Description: "Minimum word count in the chunk",
		Type:        Numeric,
		Condition:   Gte,
	},
	{
		Name:        "branch",
		Description: "Git branch name (e.g. 'main', 'feature/auth')",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "sha",
		Description: "Git commit SHA hash",
		Type:        Keyword,
		Condition:   Eq,
	},

	// Index-only fields: indexed for ingestion-side queries, no tool parameter.
	{Name: "content_type", Description: "Content type classification (code, docs, config)", Type: Keyword},
	{Name: "document_id", Description: "Unique document identifier", Type: Keyword},
	{Name: "chunk_length", Description: "Length of the text chunk", Type: Numeric},
	{Name: "start_index", Description: "Starting position of the chunk within the file", Type: Numeric},
}

// Mailbox search field configuration. Subject and recipients use full-text
// preference semantics; labels match as set membership.
var mailboxFields = []Field{
	{
		Name:        "mailbox_id",
		Description: "Mailbox identifier the search is scoped to",
		Type:        Keyword,
		Condition:   Eq,
		Required:    true,
	},
	{
		Name:        "subject",
		Description: "Email subject text (full-text, partial matches allowed)",
		Type:        Text,
		Condition:   Any,
	},
	{
		Name:        "to",
		Description: "Email recipients (full-text match across addresses)",
		Type:        Text,
		Condition:   Any,
	},
	{
		Name:        "from",
		Description: "Email sender (exact match)",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "thread_id",
		Description: "Thread/conversation identifier",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "message_id",
		Description: "Unique message-id header",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "labels",
		Description: "Email labels/tags array; matches if any provided label is present",
		Type:        Keyword,
		Condition:   Any,
	},
	{
		Name:        "sentiment",
		Description: "Detected sentiment (e.g. 'positive', 'neutral', 'negative')",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "priority",
		Description: "Email priority (e.g. 'high', 'normal', 'low')",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "language",
		Description: "Detected content language",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "date",
		Description: "Message date/time (ISO 8601, exact match)",
		Type:        Keyword,
		Condition:   Eq,
	},
	{
		Name:        "has_attachments",
		Description: "Whether the email has attachments (true/false)",
		Type:        Boolean,
		Condition:   Eq,
	},
	{
		Name:        "is_html",
		Description: "Whether the email body is HTML (true/false)",
		Type:        Boolean,
		Condition:   Eq,
	},
	{
		Name:        "content_length",
		Description: "Minimum content length",
		Type:        Numeric,
		Condition:   Gte,
	},
}
