// Package router maps request paths onto the planner's views and commands
// and decides which of them need an authenticated caller.
package router

import "net/http"

type View string

const (
	ViewHome           View = "home"
	ViewPurchase       View = "purchase"
	ViewPurchaseResult View = "purchase-result"
	ViewSupport        View = "support"
	ViewLogin          View = "login"
	ViewAccount        View = "account"
	ViewPackage        View = "package"
	ViewScenario       View = "scenario"
	ViewOverview       View = "overview"
	ViewJournals       View = "journals"
	ViewApc            View = "apc"
	ViewExport         View = "export"

	ViewCreateScenario View = "create-scenario"
	ViewCopyScenario   View = "copy-scenario"
	ViewRenameScenario View = "rename-scenario"
	ViewSetConfig      View = "set-config"
	ViewDeleteScenario View = "delete-scenario"
)

type Route struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	View         View   `json:"view"`
	RequiresAuth bool   `json:"requiresAuth"`
}

// Routes is the full route table. Every route under /a needs a caller.
var Routes = []Route{
	{Method: http.MethodGet, Path: "/", View: ViewHome},
	{Method: http.MethodGet, Path: "/purchase", View: ViewPurchase},
	{Method: http.MethodGet, Path: "/purchase/:result", View: ViewPurchaseResult},
	{Method: http.MethodGet, Path: "/support", View: ViewSupport},
	{Method: http.MethodGet, Path: "/login", View: ViewLogin},
	{Method: http.MethodGet, Path: "/a", View: ViewAccount, RequiresAuth: true},
	{Method: http.MethodGet, Path: "/a/:pkgId", View: ViewPackage, RequiresAuth: true},
	{Method: http.MethodGet, Path: "/a/:pkgId/:scenarioId", View: ViewScenario, RequiresAuth: true},
	{Method: http.MethodGet, Path: "/a/:pkgId/:scenarioId/overview", View: ViewOverview, RequiresAuth: true},
	{Method: http.MethodGet, Path: "/a/:pkgId/:scenarioId/journals", View: ViewJournals, RequiresAuth: true},
	{Method: http.MethodGet, Path: "/a/:pkgId/:scenarioId/apc", View: ViewApc, RequiresAuth: true},
	{Method: http.MethodGet, Path: "/a/:pkgId/:scenarioId/export", View: ViewExport, RequiresAuth: true},

	{Method: http.MethodPost, Path: "/a/:pkgId/scenarios", View: ViewCreateScenario, RequiresAuth: true},
	{Method: http.MethodPost, Path: "/a/:pkgId/:scenarioId/copy", View: ViewCopyScenario, RequiresAuth: true},
	{Method: http.MethodPost, Path: "/a/:pkgId/:scenarioId/rename", View: ViewRenameScenario, RequiresAuth: true},
	{Method: http.MethodPost, Path: "/a/:pkgId/:scenarioId/config", View: ViewSetConfig, RequiresAuth: true},
	{Method: http.MethodDelete, Path: "/a/:pkgId/:scenarioId", View: ViewDeleteScenario, RequiresAuth: true},
}
