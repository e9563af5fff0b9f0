// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/bhe-24/pustakamateri/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// DefaultSiteName is shown in the header and page titles.
const DefaultSiteName = "Mading Cendekia Aksara"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(w, r, "Page Title", "/"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsTeacher  bool
	UserName   string
	UserEmail  string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	CSRFToken string

	Flashes []auth.Flash
}

var (
	siteName = DefaultSiteName
	flashes  *auth.SessionManager
)

// Init sets the site name and the session manager used to pop flashes.
// Call this once at startup from bootstrap.
func Init(name string, sm *auth.SessionManager) {
	if name != "" {
		siteName = name
	}
	flashes = sm
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(w http.ResponseWriter, r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    siteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.IsTeacher = u.IsTeacher()
		vm.UserName = u.DisplayName()
		vm.UserEmail = u.Email
	}

	if flashes != nil && w != nil {
		vm.Flashes = flashes.PopFlashes(w, r)
	}
	return vm
}
