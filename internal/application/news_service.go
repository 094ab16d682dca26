package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/internal/domain/entity"
	repo "github.com/aros-club/aros-api/internal/domain/repository"
	"github.com/aros-club/aros-api/pkg/helpers"
	"github.com/aros-club/aros-api/pkg/validation"
)

// imageSniffLen is how much of an upload is inspected to tell its format.
const imageSniffLen = 3072

type NewsService struct {
	Repo     repo.NewsRepository
	Images   ImageUploader
	Cache    NewsCache
	Index    NewsIndex
	Logger   *logrus.Logger
	PageSize int
}

func NewNewsService(repo repo.NewsRepository, images ImageUploader, cache NewsCache, index NewsIndex, logger *logrus.Logger, pageSize int) *NewsService {
	return &NewsService{
		Repo:     repo,
		Images:   images,
		Cache:    cache,
		Index:    index,
		Logger:   logger,
		PageSize: pageSize,
	}
}

type CreateNewsInput struct {
	Title         string    `json:"title" validate:"text3"`
	ShortSynopsis string    `json:"shortSynopsis" validate:"text3"`
	Synopsis      string    `json:"synopsis" validate:"text3"`
	CreatedAt     time.Time `json:"createdAt"` // zero means now
	Image         io.Reader `json:"-"`
}

// Create validates in, uploads the optional image and persists the item.
// The uploaded image is removed again when the item cannot be stored.
func (s *NewsService) Create(ctx context.Context, in CreateNewsInput) (*entity.News, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	n := &entity.News{
		Title:         in.Title,
		ShortSynopsis: in.ShortSynopsis,
		Synopsis:      in.Synopsis,
		CreatedAt:     in.CreatedAt,
	}

	if in.Image != nil {
		img, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		n.ImageURL, n.ImageID = img.URL, img.ID
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		if n.ImageID != "" {
			if dErr := s.Images.Delete(ctx, n.ImageID); dErr != nil && s.Logger != nil {
				s.Logger.WithError(dErr).WithField("image_id", n.ImageID).Warn("remove orphaned image failed")
			}
		}
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.InvalidateList(ctx)
		s.Cache.SetItem(ctx, n)
	}
	if s.Index != nil {
		if err := s.Index.Index(ctx, n); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("news_id", n.ID).Warn("es index failed")
		}
	}
	return n, nil
}

// uploadImage rejects anything that is not jpeg or png before looking at
// whether uploads are configured at all.
func (s *NewsService) uploadImage(ctx context.Context, r io.Reader) (entity.Image, error) {
	br := bufio.NewReaderSize(r, imageSniffLen)
	head, err := br.Peek(imageSniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return entity.Image{}, fmt.Errorf("read image: %w", err)
	}
	if _, _, err := helpers.DetectImageFormat(head); err != nil {
		return entity.Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if s.Images == nil {
		return entity.Image{}, ErrUploadUnavailable
	}
	img, err := s.Images.Upload(ctx, br)
	if errors.Is(err, helpers.ErrUnsupportedImage) || errors.Is(err, helpers.ErrImageTooLarge) {
		return entity.Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if err != nil {
		return entity.Image{}, fmt.Errorf("upload image: %w", err)
	}
	return img, nil
}

// List returns the newest items, at most PageSize of them. The cache
// generation is read before the store so a listing read before a concurrent
// Create is filed under the old generation and never served afterwards.
func (s *NewsService) List(ctx context.Context) ([]entity.News, error) {
	var (
		gen    int64
		cached bool
	)
	if s.Cache != nil {
		gen, cached = s.Cache.ListGeneration(ctx)
	}
	if cached {
		if items, ok := s.Cache.GetList(ctx, gen, s.PageSize); ok {
			return items, nil
		}
	}
	items, err := s.Repo.List(ctx, s.PageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.News{}
	}
	if cached {
		s.Cache.SetList(ctx, gen, s.PageSize, items)
	}
	return items, nil
}

func (s *NewsService) Get(ctx context.Context, id string) (*entity.News, error) {
	if s.Cache != nil {
		if n, ok := s.Cache.GetItem(ctx, id); ok {
			return n, nil
		}
	}
	n, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNewsNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.SetItem(ctx, n)
	}
	return n, nil
}

// Search queries the full-text index. Without an index, or for a blank
// query, it returns an empty result.
func (s *NewsService) Search(ctx context.Context, q string) ([]entity.News, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []entity.News{}, nil
	}
	return s.Index.Search(ctx, q, s.PageSize)
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseCreatedAt accepts RFC 3339, a few common date layouts or Unix
// milliseconds. An empty string yields the zero time.
func ParseCreatedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCreatedAt, s)
}
