// Package view はHTMLテンプレートのレンダリングを提供する。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages はレンダリング可能なページテンプレートの一覧。
var pages = []string{
	"home.html",
	"create.html",
	"create_post.html",
	"feed.html",
	"profile.html",
}

// Renderer はレイアウトと各ページテンプレートを組み合わせてHTMLを生成する。
// 本番環境では起動時に一度だけパースしてキャッシュする。
// 開発環境ではリクエストごとに再パースする。
type Renderer struct {
	production bool

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// templateFuncs はテンプレートから利用できる補助関数。
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

// NewRenderer はRendererを生成する。本番環境では全ページを事前パースする。
func NewRenderer(production bool) (*Renderer, error) {
	r := &Renderer{
		production: production,
		cache:      make(map[string]*template.Template),
	}

	if production {
		for _, page := range pages {
			tmpl, err := parsePage(page)
			if err != nil {
				return nil, err
			}
			r.cache[page] = tmpl
		}
	}

	return r, nil
}

// parsePage はレイアウトと指定ページをパースする。
func parsePage(page string) (*template.Template, error) {
	tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
		"templates/layout.html",
		"templates/"+page,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
	}
	return tmpl, nil
}

// lookup はページテンプレートを取得する。開発環境では毎回パースし直す。
func (r *Renderer) lookup(page string) (*template.Template, error) {
	if !r.production {
		return parsePage(page)
	}

	r.mu.RLock()
	tmpl, ok := r.cache[page]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown template: %s", page)
	}
	return tmpl, nil
}

// Render は指定ページをレンダリングしてレスポンスに書き込む。
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, err := r.lookup(page)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", page, err)
	}
	return nil
}
