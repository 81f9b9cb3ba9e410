// Package api serves the projects REST API: CRUD over projects plus a
// preview of the next subnet allocation.
//
//	@title			Subnets API
//	@version		1.0
//	@description	Projects with automatically allocated /24 subnets
//	@BasePath		/
package api
