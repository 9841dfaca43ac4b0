package usecase

import (
	"context"
	"net/http"
	"strings"

	"foodorder/internal/domain/model"
	repo "foodorder/internal/repository"

	"github.com/shopspring/decimal"
)

// カテゴリ・トッピング・サイドメニューの管理
type CatalogUsecase struct {
	categories  repo.CategoryRepository
	toppings    repo.ToppingRepository
	sideOptions repo.SideOptionRepository
	auditRepo   repo.AuditLogRepository
	images      ImageStorage
	clock       Clock
}

func NewCatalogUsecase(
	categories repo.CategoryRepository,
	toppings repo.ToppingRepository,
	sideOptions repo.SideOptionRepository,
	auditRepo repo.AuditLogRepository,
	images ImageStorage,
	clock Clock,
) *CatalogUsecase {
	return &CatalogUsecase{
		categories:  categories,
		toppings:    toppings,
		sideOptions: sideOptions,
		auditRepo:   auditRepo,
		images:      images,
		clock:       clock,
	}
}

// トッピング/サイド共通の入力
type AddonInput struct {
	Name  string
	Price decimal.Decimal
	Image *ImageUpload
}

func (in AddonInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	return nil
}

func (u *CatalogUsecase) audit(ctx context.Context, actor Actor, action model.AuditAction, resource model.AuditResourceType, id int64, before, after any) error {
	if err := u.auditRepo.Create(ctx, newAuditLog(actor, action, resource, id, before, after, u.clock.Now())); err != nil {
		return internalError(err)
	}
	return nil
}

// ---- カテゴリ ----

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categories.List(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return cs, nil
}

func (u *CatalogUsecase) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, mapRepoErr(err, "category")
	}
	return c, nil
}

func (u *CatalogUsecase) CreateCategory(ctx context.Context, actor Actor, name string) (model.Category, error) {
	if err := requirePermission(actor, model.PermManageCatalog); err != nil {
		return model.Category{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	c := model.Category{Name: name}
	if err := u.categories.Create(ctx, &c); err != nil {
		return model.Category{}, mapRepoErr(err, "category")
	}
	return c, u.audit(ctx, actor, model.AuditActionCreate, model.AuditResourceCategory, c.ID, nil, c)
}

func (u *CatalogUsecase) UpdateCategory(ctx context.Context, actor Actor, id int64, name string) (model.Category, error) {
	if err := requirePermission(actor, model.PermManageCatalog); err != nil {
		return model.Category{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	before, err := u.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, mapRepoErr(err, "category")
	}
	after := before
	after.Name = name
	if err := u.categories.Update(ctx, &after); err != nil {
		return model.Category{}, mapRepoErr(err, "category")
	}
	return after, u.audit(ctx, actor, model.AuditActionUpdate, model.AuditResourceCategory, id, before, after)
}

func (u *CatalogUsecase) DeleteCategory(ctx context.Context, actor Actor, id int64) error {
	if err := requirePermission(actor, model.PermDeleteCatalog); err != nil {
		return err
	}
	before, err := u.categories.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, "category")
	}
	if err := u.categories.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "category")
	}
	return u.audit(ctx, actor, model.AuditActionDelete, model.AuditResourceCategory, id, before, nil)
}

// ---- トッピング ----

func (u *CatalogUsecase) ListToppings(ctx context.Context) ([]model.Topping, error) {
	ts, err := u.toppings.List(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return ts, nil
}

func (u *CatalogUsecase) GetTopping(ctx context.Context, id int64) (model.Topping, error) {
	t, err := u.toppings.FindByID(ctx, id)
	if err != nil {
		return model.Topping{}, mapRepoErr(err, "topping")
	}
	return t, nil
}

func (u *CatalogUsecase) CreateTopping(ctx context.Context, actor Actor, in AddonInput) (model.Topping, error) {
	if err := requirePermission(actor, model.PermManageCatalog); err != nil {
		return model.Topping{}, err
	}
	if err := in.validate(); err != nil {
		return model.Topping{}, err
	}
	image, err := saveImage(ctx, u.images, in.Image)
	if err != nil {
		return model.Topping{}, err
	}

	t := model.Topping{Name: strings.TrimSpace(in.Name), Price: in.Price, Image: image}
	if err := u.toppings.Create(ctx, &t); err != nil {
		discardImage(ctx, u.images, image)
		return model.Topping{}, mapRepoErr(err, "topping")
	}
	return t, u.audit(ctx, actor, model.AuditActionCreate, model.AuditResourceTopping, t.ID, nil, t)
}

func (u *CatalogUsecase) UpdateTopping(ctx context.Context, actor Actor, id int64, in AddonInput) (model.Topping, error) {
	if err := requirePermission(actor, model.PermManageCatalog); err != nil {
		return model.Topping{}, err
	}
	if err := in.validate(); err != nil {
		return model.Topping{}, err
	}
	before, err := u.toppings.FindByID(ctx, id)
	if err != nil {
		return model.Topping{}, mapRepoErr(err, "topping")
	}

	image, err := saveImage(ctx, u.images, in.Image)
	if err != nil {
		return model.Topping{}, err
	}
	after := before
	after.Name = strings.TrimSpace(in.Name)
	after.Price = in.Price
	if image != nil {
		after.Image = image
	}
	if err := u.toppings.Update(ctx, &after); err != nil {
		discardImage(ctx, u.images, image)
		return model.Topping{}, mapRepoErr(err, "topping")
	}
	if image != nil {
		discardImage(ctx, u.images, before.Image)
	}
	return after, u.audit(ctx, actor, model.AuditActionUpdate, model.AuditResourceTopping, id, before, after)
}

func (u *CatalogUsecase) DeleteTopping(ctx context.Context, actor Actor, id int64) error {
	if err := requirePermission(actor, model.PermDeleteCatalog); err != nil {
		return err
	}
	before, err := u.toppings.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, "topping")
	}
	if err := u.toppings.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "topping")
	}
	discardImage(ctx, u.images, before.Image)
	return u.audit(ctx, actor, model.AuditActionDelete, model.AuditResourceTopping, id, before, nil)
}

// ---- サイドメニュー ----

func (u *CatalogUsecase) ListSideOptions(ctx context.Context) ([]model.SideOption, error) {
	ss, err := u.sideOptions.List(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return ss, nil
}

func (u *CatalogUsecase) GetSideOption(ctx context.Context, id int64) (model.SideOption, error) {
	s, err := u.sideOptions.FindByID(ctx, id)
	if err != nil {
		return model.SideOption{}, mapRepoErr(err, "side option")
	}
	return s, nil
}

func (u *CatalogUsecase) CreateSideOption(ctx context.Context, actor Actor, in AddonInput) (model.SideOption, error) {
	if err := requirePermission(actor, model.PermManageCatalog); err != nil {
		return model.SideOption{}, err
	}
	if err := in.validate(); err != nil {
		return model.SideOption{}, err
	}
	image, err := saveImage(ctx, u.images, in.Image)
	if err != nil {
		return model.SideOption{}, err
	}

	s := model.SideOption{Name: strings.TrimSpace(in.Name), Price: in.Price, Image: image}
	if err := u.sideOptions.Create(ctx, &s); err != nil {
		discardImage(ctx, u.images, image)
		return model.SideOption{}, mapRepoErr(err, "side option")
	}
	return s, u.audit(ctx, actor, model.AuditActionCreate, model.AuditResourceSideOption, s.ID, nil, s)
}

func (u *CatalogUsecase) UpdateSideOption(ctx context.Context, actor Actor, id int64, in AddonInput) (model.SideOption, error) {
	if err := requirePermission(actor, model.PermManageCatalog); err != nil {
		return model.SideOption{}, err
	}
	if err := in.validate(); err != nil {
		return model.SideOption{}, err
	}
	before, err := u.sideOptions.FindByID(ctx, id)
	if err != nil {
		return model.SideOption{}, mapRepoErr(err, "side option")
	}

	image, err := saveImage(ctx, u.images, in.Image)
	if err != nil {
		return model.SideOption{}, err
	}
	after := before
	after.Name = strings.TrimSpace(in.Name)
	after.Price = in.Price
	if image != nil {
		after.Image = image
	}
	if err := u.sideOptions.Update(ctx, &after); err != nil {
		discardImage(ctx, u.images, image)
		return model.SideOption{}, mapRepoErr(err, "side option")
	}
	if image != nil {
		discardImage(ctx, u.images, before.Image)
	}
	return after, u.audit(ctx, actor, model.AuditActionUpdate, model.AuditResourceSideOption, id, before, after)
}

func (u *CatalogUsecase) DeleteSideOption(ctx context.Context, actor Actor, id int64) error {
	if err := requirePermission(actor, model.PermDeleteCatalog); err != nil {
		return err
	}
	before, err := u.sideOptions.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, "side option")
	}
	if err := u.sideOptions.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "side option")
	}
	discardImage(ctx, u.images, before.Image)
	return u.audit(ctx, actor, model.AuditActionDelete, model.AuditResourceSideOption, id, before, nil)
}
