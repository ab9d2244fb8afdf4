package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"ugiot.co.il/app/internal/modules/cart"
	"ugiot.co.il/app/internal/modules/pricing"
	"ugiot.co.il/app/internal/storage"
	"ugiot.co.il/app/pkg/view"
)

var (
	ErrNotFound       = errors.New("cookie not found")
	ErrUnknownCookies = errors.New("unknown cookies in package")
)

type Store interface {
	ListActive(ctx context.Context) ([]Cookie, error)
	GetBySlug(ctx context.Context, slug string) (Cookie, error)
	SetImage(ctx context.Context, cookieID, key, url string) (string, error)
	SetWeekly(ctx context.Context, cookieID string, discountPercent int) error
}

type Catalog struct {
	store Store
	files storage.Storage
	log   *slog.Logger
}

func NewCatalog(store Store, files storage.Storage, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{store: store, files: files, log: log}
}

func (c *Catalog) List(ctx context.Context) ([]view.Product, error) {
	items, err := c.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]view.Product, 0, len(items))
	for _, it := range items {
		out = append(out, toView(it))
	}
	return out, nil
}

func toView(c Cookie) view.Product {
	p := view.Product{
		Name:          c.Name,
		Slug:          c.Slug,
		Price:         pricing.Label(c.UnitPrice()),
		Image:         c.Image(),
		DescriptionHe: c.DescriptionHe,
		DescriptionEn: c.DescriptionEn,
		Weekly:        c.Weekly,
	}
	if c.Weekly && c.DiscountPercent > 0 {
		p.DiscountPercent = c.DiscountPercent
		p.OriginalPrice = pricing.Label(pricing.UnitPrice)
	}
	return p
}

func (c *Catalog) get(ctx context.Context, slug string) (Cookie, error) {
	ck, err := c.store.GetBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Cookie{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return ck, err
}

func (c *Catalog) Get(ctx context.Context, slug string) (view.Product, error) {
	ck, err := c.get(ctx, slug)
	if err != nil {
		return view.Product{}, err
	}
	return toView(ck), nil
}

// CartItem is the line added to the cart for slug, with today's price frozen in its label.
func (c *Catalog) CartItem(ctx context.Context, slug string) (cart.Item, error) {
	ck, err := c.get(ctx, slug)
	if err != nil {
		return cart.Item{}, err
	}
	return cart.Item{Name: ck.Name, Price: pricing.Label(ck.UnitPrice()), Quantity: 1, Image: ck.Image()}, nil
}

// UploadImage stores a new image for the cookie and removes the previous file.
func (c *Catalog) UploadImage(ctx context.Context, slug string, r io.Reader, in storage.PutInput) (view.Product, error) {
	ck, err := c.get(ctx, slug)
	if err != nil {
		return view.Product{}, err
	}
	in.Folder = "cookies"
	res, err := c.files.Put(ctx, r, in)
	if err != nil {
		return view.Product{}, err
	}
	prev, err := c.store.SetImage(ctx, ck.ID, res.Key, res.URL)
	if err != nil {
		if derr := c.files.Delete(ctx, res.Key); derr != nil {
			c.log.WarnContext(ctx, "orphan image cleanup failed", "key", res.Key, "err", derr)
		}
		return view.Product{}, err
	}
	if prev != "" && prev != res.Key {
		if err := c.files.Delete(ctx, prev); err != nil {
			c.log.WarnContext(ctx, "old image delete failed", "key", prev, "err", err)
		}
	}
	ck.ImageKey, ck.ImageURL = &res.Key, &res.URL
	return toView(ck), nil
}

func (c *Catalog) SetWeekly(ctx context.Context, slug string, discountPercent int) error {
	ck, err := c.get(ctx, slug)
	if err != nil {
		return err
	}
	return c.store.SetWeekly(ctx, ck.ID, discountPercent)
}

// Packages lists the gift package tiers with their full-box prices.
func Packages() []view.GiftPackage {
	tiers := pricing.Tiers()
	out := make([]view.GiftPackage, len(tiers))
	for i, t := range tiers {
		full, _ := pricing.PackageQuote(t.Code, []pricing.PackageItem{{Name: "box", Quantity: t.Capacity}})
		out[i] = view.GiftPackage{
			Code:            t.Code,
			Capacity:        t.Capacity,
			DiscountPercent: t.DiscountPercent,
			FullPrice:       pricing.Label(full.BasePrice),
			Price:           pricing.Label(full.FinalPrice),
		}
	}
	return out
}

// QuotePackage prices a selection after checking every cookie is on the menu.
func (c *Catalog) QuotePackage(ctx context.Context, tier string, items []pricing.PackageItem) (view.PackageQuote, error) {
	active, err := c.store.ListActive(ctx)
	if err != nil {
		return view.PackageQuote{}, err
	}
	known := make(map[string]bool, len(active))
	for _, ck := range active {
		known[ck.Name] = true
	}
	var unknown []string
	for _, it := range items {
		if !known[it.Name] {
			unknown = append(unknown, it.Name)
		}
	}
	if len(unknown) > 0 {
		return view.PackageQuote{}, fmt.Errorf("%w: %s", ErrUnknownCookies, strings.Join(unknown, ", "))
	}

	t, err := pricing.PackageQuote(tier, items)
	if err != nil {
		return view.PackageQuote{}, err
	}
	return view.PackageQuote{
		Tier:       t.Tier,
		Count:      t.Count,
		BasePrice:  t.BasePrice,
		Discount:   t.Discount,
		FinalPrice: t.FinalPrice,
		FinalLabel: pricing.Label(t.FinalPrice),
	}, nil
}
