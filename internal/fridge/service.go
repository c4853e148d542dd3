// Package fridge implements the catalog and inventory model: the handlers
// behind every wire operation, and the session loop that feeds them.
package fridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coldchain/icebox/internal/protocol"
	"github.com/coldchain/icebox/internal/sqlite"
	"github.com/coldchain/icebox/pkg/types"
)

// Service implements the inventory operations over an injected storage
// gateway. The store is an explicit dependency, never ambient state, and is
// only touched by the session loop's single thread.
type Service struct {
	store    *sqlite.Store
	validate *validator.Validate
	log      *slog.Logger
	warnDays int

	// now is swapped in tests to pin the calendar.
	now func() time.Time
}

// NewService creates the model over the given store. config supplies the
// default checkDates threshold.
func NewService(store *sqlite.Store, config types.Config, log *slog.Logger) *Service {
	// Zero is a valid configured threshold (warn only on the expiry day
	// itself); only negatives fall back to the default, and Validate
	// rejects those at startup anyway.
	warnDays := config.WarningDays
	if warnDays < 0 {
		warnDays = types.DefaultWarningDays
	}
	return &Service{
		store:    store,
		validate: validator.New(),
		log:      log,
		warnDays: warnDays,
		now:      time.Now,
	}
}

// Register installs the closed set of supported operations on the router.
func (s *Service) Register(r *protocol.Router) {
	r.Register("listProducts", s.ListProducts)
	r.Register("addProduct", s.AddProduct)
	r.Register("removeProduct", s.RemoveProduct)
	r.Register("listContents", s.ListContents)
	r.Register("insertItem", s.InsertItem)
	r.Register("removeItem", s.RemoveItem)
	r.Register("openItem", s.OpenItem)
	r.Register("addFavourite", s.AddFavourite)
	r.Register("removeFavourite", s.RemoveFavourite)
	r.Register("listFavourites", s.ListFavourites)
	r.Register("checkDates", s.CheckDates)
}

// decode unmarshals a frame into a typed payload and runs the validator
// over it. Shape problems are malformed requests, not crashes.
func (s *Service) decode(raw []byte, payload any) error {
	if err := json.Unmarshal(raw, payload); err != nil {
		return fmt.Errorf("%w: %v", types.ErrMalformedRequest, err)
	}
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", types.ErrMalformedRequest, err)
	}
	return nil
}

// today returns the current calendar date, stripped of its time component.
func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ListProducts returns {name, brand, product_id} for every catalog entry.
func (s *Service) ListProducts(raw []byte) (any, error) {
	products, err := s.store.Products().List()
	if err != nil {
		return nil, err
	}
	rows := make([]types.ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, types.ProductRow{Name: p.Name, Brand: p.Brand, ProductID: p.ProductID})
	}
	return rows, nil
}

// AddProduct creates a catalog entry. A taken (name, brand) pair is
// rejected without creating a second row.
func (s *Service) AddProduct(raw []byte) (any, error) {
	var req types.AddProductRequest
	if err := s.decode(raw, &req); err != nil {
		return nil, err
	}
	product := &types.Product{
		Name:            req.Name,
		Brand:           req.Brand,
		MeasurementType: req.MeasurementType,
		UseWithin:       req.UseWithin,
	}
	if _, err := s.store.Products().Insert(product); err != nil {
		return nil, err
	}
	return "OK", nil
}

// RemoveProduct deletes a catalog entry by (name, brand). The delete is
// blocked while any fridge item still references the product.
func (s *Service) RemoveProduct(raw []byte) (any, error) {
	var req types.RemoveProductRequest
	if err := s.decode(raw, &req); err != nil {
		return nil, err
	}
	product, err := s.store.Products().GetByNameBrand(req.Name, req.Brand)
	if err != nil {
		return nil, err
	}
	n, err := s.store.Contents().CountForProduct(product.ProductID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, fmt.Errorf("product %s (%s): %w", product.Name, product.Brand, types.ErrReferentialConflict)
	}
	if err := s.store.Products().Delete(product.ProductID); err != nil {
		return nil, err
	}
	return "OK", nil
}

// ListContents returns every fridge item joined to its product name, with
// the populated measurement values in fixed column order.
func (s *Service) ListContents(raw []byte) (any, error) {
	joined, err := s.store.Contents().ListJoined()
	if err != nil {
		return nil, err
	}
	rows := make([]types.ContentRow, 0, len(joined))
	for _, j := range joined {
		rows = append(rows, types.ContentRow{
			Name:           j.Name,
			ItemID:         j.Item.ItemID,
			ExpirationDate: j.Item.ExpirationDate.Format(types.DateLayout),
			Amount:         j.Item.Amounts(),
		})
	}
	return rows, nil
}

// InsertItem places one physical item in the fridge. The product's
// measurement type selects which data field must be present; only that
// field is stored.
func (s *Service) InsertItem(raw []byte) (any, error) {
	var req types.InsertItemRequest
	if err := s.decode(raw, &req); err != nil {
		return nil, err
	}
	product, err := s.store.Products().GetByNameBrand(req.Name, req.Brand)
	if err != nil {
		return nil, err
	}
	useBy, err := types.ParseDate(req.Data.UseBy)
	if err != nil {
		return nil, fmt.Errorf("%w: use_by: %v", types.ErrMalformedRequest, err)
	}

	item := &types.FridgeItem{
		ProductID:      product.ProductID,
		ExpirationDate: useBy,
	}
	switch product.MeasurementType {
	case types.MeasurementQuantity:
		item.Quantity = req.Data.Quantity
	case types.MeasurementVolume:
		item.Volume = req.Data.Volume
	case types.MeasurementWeight:
		item.Weight = req.Data.Weight
	}
	if _, err := s.store.Contents().Insert(item, product.MeasurementType); err != nil {
		return nil, err
	}
	return "OK", nil
}

// RemoveItem deletes a fridge item by id. A missing id is an error, not a
// silent no-op.
func (s *Service) RemoveItem(raw []byte) (any, error) {
	var req types.ItemRequest
	if err := s.decode(raw, &req); err != nil {
		return nil, err
	}
	if err := s.store.Contents().Delete(req.ItemID); err != nil {
		return nil, err
	}
	return "OK", nil
}

// OpenItem recomputes an item's expiry from its product's use_within
// policy: today plus use_within calendar days. A product without the
// policy leaves the date untouched.
func (s *Service) OpenItem(raw []byte) (any, error) {
	var req types.ItemRequest
	if err := s.decode(raw, &req); err != nil {
		return nil, err
	}
	item, err := s.store.Contents().Get(req.ItemID)
	if err != nil {
		return nil, err
	}
	product, err := s.store.Products().Get(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product.UseWithin == nil {
		s.log.Debug("product has no use_within policy, expiry unchanged", "item_id", item.ItemID)
		return types.OpenItemResult{ExpirationDate: item.ExpirationDate.Format(types.DateLayout)}, nil
	}
	expiration := s.today().AddDate(0, 0, *product.UseWithin)
	s.log.Debug("recomputed expiry on open", "item_id", item.ItemID, "expiration_date", expiration.Format(types.DateLayout))
	if err := s.store.Contents().UpdateExpiration(item.ItemID, expiration); err != nil {
		return nil, err
	}
	return types.OpenItemResult{ExpirationDate: expiration.Format(types.DateLayout)}, nil
}

// AddFavourite marks an existing product as a favourite. Marking it twice
// is an idempotent no-op.
func (s *Service) AddFavourite(raw []byte) (any, error) {
	var req types.FavouriteRequest
	if err := s.decode(raw, &req); err != nil {
		return nil, err
	}
	if _, err := s.store.Products().Get(req.ProductID); err != nil {
		return nil, err
	}
	if err := s.store.Favourites().Add(req.ProductID); err != nil {
		return nil, err
	}
	return "OK", nil
}

// RemoveFavourite clears a favourite marker.
func (s *Service) RemoveFavourite(raw []byte) (any, error) {
	var req types.FavouriteRequest
	if err := s.decode(raw, &req); err != nil {
		return nil, err
	}
	if err := s.store.Favourites().Remove(req.ProductID); err != nil {
		return nil, err
	}
	return "OK", nil
}

// ListFavourites returns the favourited products.
func (s *Service) ListFavourites(raw []byte) (any, error) {
	favourites, err := s.store.Favourites().List()
	if err != nil {
		return nil, err
	}
	rows := make([]types.ProductRow, 0, len(favourites))
	for _, p := range favourites {
		rows = append(rows, types.ProductRow{Name: p.Name, Brand: p.Brand, ProductID: p.ProductID})
	}
	return rows, nil
}

// CheckDates returns the items expiring within the warning window:
// expiration_date minus today, in whole calendar days, at or under the
// threshold. The request may override the configured default.
func (s *Service) CheckDates(raw []byte) (any, error) {
	var req types.CheckDatesRequest
	if err := s.decode(raw, &req); err != nil {
		return nil, err
	}
	warnDays := s.warnDays
	if req.WarningDays != nil {
		warnDays = *req.WarningDays
	}

	joined, err := s.store.Contents().ListJoined()
	if err != nil {
		return nil, err
	}
	today := s.today()
	rows := make([]types.ExpiryRow, 0)
	for _, j := range joined {
		if types.DaysBetween(today, j.Item.ExpirationDate) <= warnDays {
			rows = append(rows, types.ExpiryRow{Name: j.Name, ItemID: j.Item.ItemID})
		}
	}
	return rows, nil
}
