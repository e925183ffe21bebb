package chart

const cacheSchema = `
CREATE TABLE IF NOT EXISTS chart_cache (
    cache_key TEXT PRIMARY KEY,
    provider TEXT NOT NULL,
    image BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    accessed_at INTEGER NOT NULL,
    expires_at INTEGER,
    hits INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_chart_cache_expires ON chart_cache(expires_at);
`
