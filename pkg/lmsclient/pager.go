package lmsclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
)

const (
	SortByTitle  = "title"
	SortByRating = "rating"
	SortByDate   = "date"
)

type Page struct {
	Units       []Unit `json:"units"`
	Total       int64  `json:"total"`
	Pages       int    `json:"pages"`
	CurrentPage int    `json:"current_page"`
	HasNext     bool   `json:"has_next"`
	HasPrev     bool   `json:"has_prev"`
}

// Pager 单元目录的分页状态。切换排序或分类会回到第一页并重新加载。
type Pager struct {
	client *Client

	mu       sync.Mutex
	page     int
	perPage  int
	sortBy   string
	category string
	last     Page
}

func (c *Client) Pager(perPage int) *Pager {
	if perPage <= 0 {
		perPage = 12
	}
	return &Pager{client: c, page: 1, perPage: perPage, sortBy: SortByTitle}
}

func (p *Pager) Load(ctx context.Context) error {
	p.mu.Lock()
	page, perPage, sortBy, category := p.page, p.perPage, p.sortBy, p.category
	p.mu.Unlock()

	path := "/api/units"
	if category != "" {
		path = "/api/units/category/" + url.PathEscape(category)
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("sort_by", sortBy)

	var res Page
	if err := p.client.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &res); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// 加载期间状态已变化时丢弃过期结果
	if p.page != page || p.sortBy != sortBy || p.category != category {
		return nil
	}
	if res.Units == nil {
		res.Units = []Unit{}
	}
	p.last = res
	return nil
}

// Goto 跳转到指定页，超出已知页数时返回 ErrPageOutOfRange 且不发请求
func (p *Pager) Goto(ctx context.Context, page int) error {
	p.mu.Lock()
	if page < 1 || (p.last.Pages > 0 && page > p.last.Pages) {
		p.mu.Unlock()
		return ErrPageOutOfRange
	}
	p.page = page
	p.mu.Unlock()
	return p.Load(ctx)
}

func (p *Pager) Next(ctx context.Context) error {
	if !p.HasNext() {
		return nil
	}
	return p.Goto(ctx, p.Page()+1)
}

func (p *Pager) Prev(ctx context.Context) error {
	if !p.HasPrev() {
		return nil
	}
	return p.Goto(ctx, p.Page()-1)
}

func (p *Pager) SetSort(ctx context.Context, sortBy string) error {
	p.mu.Lock()
	p.sortBy = sortBy
	p.page = 1
	p.mu.Unlock()
	return p.Load(ctx)
}

// SetCategory 空字符串表示全部分类
func (p *Pager) SetCategory(ctx context.Context, category string) error {
	p.mu.Lock()
	p.category = category
	p.page = 1
	p.mu.Unlock()
	return p.Load(ctx)
}

func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Pager) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last.Pages
}

func (p *Pager) Total() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last.Total
}

func (p *Pager) Units() []Unit {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Unit, len(p.last.Units))
	copy(out, p.last.Units)
	return out
}

func (p *Pager) HasPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page > 1
}

func (p *Pager) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page < p.last.Pages
}

// Pages 每页一个页码，用于渲染页码按钮
func (p *Pager) Pages() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	pages := make([]int, p.last.Pages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
