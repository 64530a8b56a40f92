// Package iam manages users, roles and module-action grants inside one
// tenant database, provides the permission-set query feeding the
// authorization cache, and issues access tokens on login. Login is a
// bootstrap endpoint: its tenant comes from the X-TenantId header, and the
// issued token pins every later request to that tenant.
package iam
