package api

import "fmt"

// API paths, relative to the API root
const (
	ProductsPath = "/api/products/"
	ProductPath  = "/api/products/get_one/"
	VersionPath  = "/api/versions/get_one/"
	PlanPath     = "/api/plans/get_one/"
	JobsPath     = "/api/jobs/"
	UserPath     = "/api/user/"
	LogoutPath   = "/api/logout/"
	OrgsPath     = "/api/orgs/"

	// SocketPath - push channel endpoint
	SocketPath = "/ws/notifications/"
)

// AdditionalPlansPath -
func AdditionalPlansPath(versionID string) string {
	return fmt.Sprintf("/api/versions/%s/additional_plans/", versionID)
}

// PreflightPath - GET for the latest preflight, POST to start one
func PreflightPath(planID string) string {
	return fmt.Sprintf("/api/plans/%s/preflight/", planID)
}

// JobPath - GET, PATCH and DELETE (cancel) of one job
func JobPath(jobID string) string {
	return fmt.Sprintf("/api/jobs/%s/", jobID)
}

// ScratchOrgPath - GET for the plan's scratch org, POST to spin one up
func ScratchOrgPath(planID string) string {
	return fmt.Sprintf("/api/plans/%s/scratch-org/", planID)
}
