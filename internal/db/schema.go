package db

// SchemaSQL contains the database schema initialization SQL.
// Both tables are keyed by application-assigned string record ids; the
// store never relies on generated keys.
const SchemaSQL = `
    -- ==========================================================================
    -- CHAT TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS chat SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON chat TYPE string;
    -- Messages are embedded documents owned by the chat, never standalone records
    DEFINE FIELD IF NOT EXISTS messages ON chat FLEXIBLE TYPE array<object> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS folderId ON chat TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS folderSlug ON chat TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS createdAt ON chat TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updatedAt ON chat TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS chat_created ON chat FIELDS createdAt;
    DEFINE INDEX IF NOT EXISTS chat_folder ON chat FIELDS folderId;

    -- ==========================================================================
    -- FOLDER TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS folder SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON folder TYPE string;
    DEFINE FIELD IF NOT EXISTS url ON folder TYPE string DEFAULT "#";
    DEFINE FIELD IF NOT EXISTS items ON folder FLEXIBLE TYPE array<object> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS createdAt ON folder TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updatedAt ON folder TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS folder_created ON folder FIELDS createdAt;
`
