// Package attachment stores files linked to domain entities (unit photos,
// booking receipts, notices). Bytes go to a file.Storage backend under a
// tenant-prefixed path; metadata lives in the tenant database.
package attachment
