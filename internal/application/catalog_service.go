package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/internal/domain/repository"
)

// CatalogService owns the product catalog and its search index. Writes go
// to the document store first, indexing is best effort.
type CatalogService struct {
	products repository.ProductRepository
	es       *elasticsearch.Client
	index    string
	log      *logrus.Logger
}

func NewCatalogService(products repository.ProductRepository, es *elasticsearch.Client, index string, log *logrus.Logger) *CatalogService {
	return &CatalogService{products: products, es: es, index: index, log: log}
}

func (s *CatalogService) List(ctx context.Context) ([]entity.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, p *entity.Product) error {
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	_ = s.indexProduct(ctx, p)
	return nil
}

// Update applies the provided fields and re-indexes the result.
func (s *CatalogService) Update(ctx context.Context, id string, upd repository.ProductUpdate) (*entity.Product, error) {
	p, err := s.products.Apply(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	_ = s.indexProduct(ctx, p)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.dropFromIndex(ctx, id)
	return nil
}

func (s *CatalogService) indexProduct(ctx context.Context, p *entity.Product) error {
	if s.es == nil || s.index == "" {
		return nil
	}
	doc := map[string]any{
		"id":        p.ID.Hex(),
		"name":      p.Name,
		"category":  p.Category,
		"price":     p.Price,
		"image_url": p.ProductImage.URL,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.index, DocumentID: p.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.es)
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("product_id", p.ID.Hex()).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.log != nil {
		s.log.WithField("status", res.Status()).WithField("product_id", p.ID.Hex()).Warn("es index response error")
	}
	return nil
}

func (s *CatalogService) dropFromIndex(ctx context.Context, id string) {
	if s.es == nil || s.index == "" {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req := esapi.DeleteRequest{Index: s.index, DocumentID: id}
	res, err := req.Do(c, s.es)
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match search over the product name and category.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.es == nil || s.index == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.es.Search(s.es.Search.WithContext(c), s.es.Search.WithIndex(s.index), s.es.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
