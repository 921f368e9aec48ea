package services

import (
	"net/url"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const schemaContext = "https://schema.org"

type Meta struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	Canonical   string   `json:"canonical"`
	Author      string   `json:"author,omitempty"`
	Robots      string   `json:"robots"`
}

type OpenGraph struct {
	Title       string `json:"og:title"`
	Description string `json:"og:description"`
	URL         string `json:"og:url"`
	Image       string `json:"og:image,omitempty"`
	Type        string `json:"og:type"`
	SiteName    string `json:"og:site_name"`
	Locale      string `json:"og:locale"`
}

type Twitter struct {
	Card        string `json:"twitter:card"`
	Site        string `json:"twitter:site,omitempty"`
	Creator     string `json:"twitter:creator,omitempty"`
	Title       string `json:"twitter:title"`
	Description string `json:"twitter:description"`
	Image       string `json:"twitter:image,omitempty"`
}

// Metadata is everything a page head needs. The setters keep the meta,
// Open Graph and Twitter views in sync.
type Metadata struct {
	Meta           Meta                     `json:"meta"`
	OpenGraph      OpenGraph                `json:"open_graph"`
	Twitter        Twitter                  `json:"twitter"`
	StructuredData []map[string]interface{} `json:"structured_data"`

	siteName string
}

// SetTitle sets the page title, suffixed with the site name unless
// appendSiteName is false.
func (m *Metadata) SetTitle(title string, appendSiteName bool) *Metadata {
	if appendSiteName && m.siteName != "" {
		title = title + " | " + m.siteName
	}
	m.Meta.Title = title
	m.OpenGraph.Title = title
	m.Twitter.Title = title
	return m
}

func (m *Metadata) SetDescription(description string) *Metadata {
	description = summarize(description, 160)
	m.Meta.Description = description
	m.OpenGraph.Description = description
	m.Twitter.Description = description
	return m
}

func (m *Metadata) SetURL(u string) *Metadata {
	m.Meta.Canonical = u
	m.OpenGraph.URL = u
	return m
}

// SetImage expects an absolute URL. An empty value keeps the current image.
func (m *Metadata) SetImage(image string) *Metadata {
	if image == "" {
		return m
	}
	m.OpenGraph.Image = image
	m.Twitter.Image = image
	return m
}

func (m *Metadata) SetType(ogType string) *Metadata {
	m.OpenGraph.Type = ogType
	return m
}

// AddSchema appends a structured data block of the given schema.org type.
// props are merged over the @context/@type envelope.
func (m *Metadata) AddSchema(schemaType string, props map[string]interface{}) *Metadata {
	block := map[string]interface{}{
		"@context": schemaContext,
		"@type":    schemaType,
	}
	for k, v := range props {
		if v == nil || v == "" {
			continue
		}
		block[k] = v
	}
	m.StructuredData = append(m.StructuredData, block)
	return m
}

// SEO composes page metadata from the site defaults and entity data.
type SEO struct {
	site     config.Site
	assetURL func(string) string
}

// NewSEO takes the function mapping stored asset paths to public URLs.
func NewSEO(site config.Site, assetURL func(string) string) *SEO {
	if assetURL == nil {
		assetURL = func(p string) string { return p }
	}
	return &SEO{site: site, assetURL: assetURL}
}

// AbsoluteURL passes through URLs with a scheme and resolves everything else
// against the site base URL.
func (s *SEO) AbsoluteURL(u string) string {
	if u == "" {
		return ""
	}
	if parsed, err := url.Parse(u); err == nil && parsed.Scheme != "" {
		return u
	}
	return strings.TrimRight(s.site.BaseURL, "/") + "/" + strings.TrimLeft(u, "/")
}

func (s *SEO) imageURL(p string) string {
	if p == "" {
		return ""
	}
	return s.AbsoluteURL(s.assetURL(p))
}

// Defaults returns metadata built only from the site settings.
func (s *SEO) Defaults() *Metadata {
	m := &Metadata{
		Meta: Meta{
			Keywords: append([]string(nil), s.site.Keywords...),
			Author:   s.site.Author.Name,
			Robots:   "index, follow",
		},
		OpenGraph: OpenGraph{
			Type:     "website",
			SiteName: s.site.Name,
			Locale:   s.site.Locale,
		},
		Twitter: Twitter{
			Card:    "summary_large_image",
			Site:    s.site.TwitterHandle,
			Creator: s.site.TwitterHandle,
		},
		StructuredData: []map[string]interface{}{},
		siteName:       s.site.Name,
	}
	m.SetTitle(s.site.Name, false)
	m.SetDescription(s.site.Description)
	m.SetURL(s.AbsoluteURL("/"))
	m.SetImage(s.imageURL(s.site.DefaultImage))
	return m
}

func (s *SEO) person() map[string]interface{} {
	person := map[string]interface{}{
		"name": s.site.Author.Name,
		"url":  s.AbsoluteURL("/"),
	}
	if s.site.Author.JobTitle != "" {
		person["jobTitle"] = s.site.Author.JobTitle
	}
	if s.site.Author.Email != "" {
		person["email"] = s.site.Author.Email
	}
	if s.site.Author.Image != "" {
		person["image"] = s.imageURL(s.site.Author.Image)
	}
	if len(s.site.Author.SameAs) > 0 {
		person["sameAs"] = s.site.Author.SameAs
	}
	return person
}

func (s *SEO) author() map[string]interface{} {
	return map[string]interface{}{
		"@type": "Person",
		"name":  s.site.Author.Name,
	}
}

// Home describes the landing page with Person and WebSite schemas.
func (s *SEO) Home() *Metadata {
	m := s.Defaults()
	m.AddSchema("Person", s.person())
	m.AddSchema("WebSite", map[string]interface{}{
		"name":        s.site.Name,
		"url":         s.AbsoluteURL("/"),
		"description": s.site.Description,
		"inLanguage":  strings.ReplaceAll(s.site.Locale, "_", "-"),
		"author":      s.author(),
	})
	return m
}

// PortfolioIndex describes the project listing as a CollectionPage whose
// ItemList follows the order of projects.
func (s *SEO) PortfolioIndex(projects []*models.Project) *Metadata {
	pageURL := s.AbsoluteURL("/portfolio")

	m := s.Defaults()
	m.SetTitle("Portafolio", true)
	m.SetDescription("Proyectos de " + s.site.Author.Name + ". " + s.site.Description)
	m.SetURL(pageURL)

	items := make([]map[string]interface{}, 0, len(projects))
	for i, p := range projects {
		items = append(items, map[string]interface{}{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     p.Title,
			"url":      s.AbsoluteURL("/portfolio/" + p.Slug),
		})
	}
	m.AddSchema("CollectionPage", map[string]interface{}{
		"name": m.Meta.Title,
		"url":  pageURL,
		"mainEntity": map[string]interface{}{
			"@type":           "ItemList",
			"numberOfItems":   len(projects),
			"itemListElement": items,
		},
	})
	return m
}

// ProjectDetail describes one project as a CreativeWork article.
func (s *SEO) ProjectDetail(p *models.Project) *Metadata {
	pageURL := s.AbsoluteURL("/portfolio/" + p.Slug)
	description := p.Content
	if p.ShortDescription != nil && *p.ShortDescription != "" {
		description = *p.ShortDescription
	}
	image := ""
	if p.FeaturedImage != nil && *p.FeaturedImage != "" {
		image = s.imageURL(*p.FeaturedImage)
	} else if p.Thumbnail != nil && *p.Thumbnail != "" {
		image = s.imageURL(*p.Thumbnail)
	}

	m := s.Defaults()
	m.SetTitle(p.Title, true)
	m.SetDescription(description)
	m.SetURL(pageURL)
	m.SetImage(image)
	m.SetType("article")
	if names := p.TechnologyNames(); len(names) > 0 {
		m.Meta.Keywords = append(names, m.Meta.Keywords...)
	}

	props := map[string]interface{}{
		"headline":     p.Title,
		"description":  m.Meta.Description,
		"url":          pageURL,
		"dateModified": p.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		"author":       s.author(),
	}
	if image != "" {
		props["image"] = image
	}
	if p.PublishedAt != nil {
		props["datePublished"] = p.PublishedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if names := p.TechnologyNames(); len(names) > 0 {
		props["keywords"] = strings.Join(names, ", ")
	}
	m.AddSchema("CreativeWork", props)
	return m
}

// summarize flattens whitespace and cuts text at a word boundary.
func summarize(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}
