package web

import (
	"embed"
	"html/template"
	"net/http"
	"posts/client"
	"posts/utils"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	sessionCookieName     = "view"
	sessionExpirationTime = 86400 // 1 day
	viewIDKey             = "id"
)

// now is replaced in tests
var now = time.Now

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates returns all page templates, to be used with gin.Engine.SetHTMLTemplate
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
}

// View serves the posts page. Every browser session that changed something gets its own client.App
type View struct {
	api   client.Backend
	store sessions.Store
	apps  cmap.ConcurrentMap[string, *viewState]
}

type viewState struct {
	app      *client.App
	lastSeen atomic.Int64 // unix seconds
}

func (s *viewState) touch() {
	s.lastSeen.Store(now().Unix())
}

// New returns a View using api for all post operations. sessionKey signs the session cookie
func New(api client.Backend, sessionKey string) *View {
	store := cookie.NewStore([]byte(sessionKey))
	store.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return &View{
		api:   api,
		store: store,
		apps:  cmap.New[*viewState](),
	}
}

// Register sets up the page templates and routes on router
func (v *View) Register(router *gin.Engine) {
	router.SetHTMLTemplate(Templates())
	g := router.Group("/", sessions.Sessions(sessionCookieName, v.store))
	g.GET("/", v.Page)
	g.POST("/add", v.Add)
	g.POST("/save", v.Save)
	g.POST("/cancel", v.Cancel)
	g.POST("/posts/:id/edit", v.Edit)
	g.POST("/posts/:id/delete", v.Delete)
}

// Views returns the number of browser sessions with state
func (v *View) Views() int {
	return v.apps.Count()
}

// app returns the state of the calling browser. Without create, browsers that have no
// state yet get a fresh client.App that is not kept
func (v *View) app(c *gin.Context, create bool) *client.App {
	session := sessions.Default(c)
	id, _ := session.Get(viewIDKey).(string)
	if state, ok := v.apps.Get(id); ok && id != "" {
		state.touch()
		return state.app
	}
	if !create {
		return client.NewApp(v.api)
	}
	v.expire()
	if id == "" {
		id = utils.Rand16BytesToBase62()
		session.Set(viewIDKey, id)
		_ = session.Save()
	}
	state := &viewState{app: client.NewApp(v.api)}
	state.touch()
	v.apps.SetIfAbsent(id, state)
	state, _ = v.apps.Get(id)
	return state.app
}

// expire drops the state of sessions whose cookie has run out
func (v *View) expire() {
	oldest := now().Unix() - sessionExpirationTime
	for item := range v.apps.IterBuffered() {
		if item.Val.lastSeen.Load() < oldest {
			v.apps.Remove(item.Key)
		}
	}
}

// Page renders the current state. Every page load re-reads the list, like mounting the page would
func (v *View) Page(c *gin.Context) {
	app := v.app(c, false)
	_ = app.FetchPosts(c.Request.Context())
	c.HTML(http.StatusOK, "posts.tmpl", app.State())
}

func (v *View) Add(c *gin.Context) {
	app := v.app(c, true)
	app.SetDraft(c.PostForm("title"), c.PostForm("content"))
	_ = app.AddPost(c.Request.Context())
	back(c)
}

func (v *View) Edit(c *gin.Context) {
	v.app(c, true).StartEdit(c.Param("id"))
	back(c)
}

func (v *View) Save(c *gin.Context) {
	app := v.app(c, true)
	app.SetEditDraft(c.PostForm("title"), c.PostForm("content"))
	_ = app.SaveEdit(c.Request.Context())
	back(c)
}

func (v *View) Cancel(c *gin.Context) {
	v.app(c, true).CancelEdit()
	back(c)
}

func (v *View) Delete(c *gin.Context) {
	_ = v.app(c, true).DeletePost(c.Request.Context(), c.Param("id"))
	back(c)
}

// back sends the browser to the page again, so a reload never re-submits a form
func back(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
