package usecase

import (
	"context"
	"io"
	"net/http"
	"strings"

	"foodorder/internal/domain/model"
	repo "foodorder/internal/repository"

	"github.com/shopspring/decimal"
)

// 画像の保存先。戻り値は公開パス
type ImageStorage interface {
	Save(ctx context.Context, filename string, src io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

// アップロードされた画像
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	auditRepo    repo.AuditLogRepository
	images       ImageStorage
	clock        Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	auditRepo repo.AuditLogRepository,
	images ImageStorage,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
		images:       images,
		clock:        clock,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	Sort       string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc", "rating":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          strings.TrimSpace(in.Q),
		CategoryID: in.CategoryID,
		Sort:       in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, internalError(err)
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, mapRepoErr(err, "product")
	}
	return p, nil
}

type ProductInput struct {
	Name        string
	Description string
	CategoryID  *int64
	Price       decimal.Decimal
	Rating      decimal.Decimal
	Image       *ImageUpload
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Rating.IsNegative() || in.Rating.GreaterThan(decimal.NewFromInt(5)) {
		return NewHTTPError(http.StatusBadRequest, "rating must be between 0 and 5")
	}
	return nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actor Actor, in ProductInput) (model.Product, error) {
	if err := requirePermission(actor, model.PermManageCatalog); err != nil {
		return model.Product{}, err
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}
	if err := u.checkCategory(ctx, in.CategoryID); err != nil {
		return model.Product{}, err
	}

	image, err := saveImage(ctx, u.images, in.Image)
	if err != nil {
		return model.Product{}, err
	}

	now := u.clock.Now()
	p := model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		Rating:      in.Rating,
		Image:       image,
		CreatorID:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.productRepo.Create(ctx, &p); err != nil {
		discardImage(ctx, u.images, image)
		return model.Product{}, mapRepoErr(err, "product")
	}

	//監査ログ
	if err := u.auditRepo.Create(ctx, newAuditLog(actor, model.AuditActionCreate, model.AuditResourceProduct, p.ID, nil, p, now)); err != nil {
		return model.Product{}, internalError(err)
	}
	return p, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actor Actor, productID int64, in ProductInput) (model.Product, error) {
	if err := requirePermission(actor, model.PermManageCatalog); err != nil {
		return model.Product{}, err
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}
	if err := u.checkCategory(ctx, in.CategoryID); err != nil {
		return model.Product{}, err
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, mapRepoErr(err, "product")
	}

	after := before
	after.Name = strings.TrimSpace(in.Name)
	after.Description = in.Description
	after.CategoryID = in.CategoryID
	after.Price = in.Price
	after.Rating = in.Rating
	after.UpdatedAt = u.clock.Now()

	// 画像は差し替え
	newImage, err := saveImage(ctx, u.images, in.Image)
	if err != nil {
		return model.Product{}, err
	}
	if newImage != nil {
		after.Image = newImage
	}

	if err := u.productRepo.Update(ctx, &after); err != nil {
		discardImage(ctx, u.images, newImage)
		return model.Product{}, mapRepoErr(err, "product")
	}
	if newImage != nil {
		discardImage(ctx, u.images, before.Image)
	}

	if err := u.auditRepo.Create(ctx, newAuditLog(actor, model.AuditActionUpdate, model.AuditResourceProduct, productID, before, after, after.UpdatedAt)); err != nil {
		return model.Product{}, internalError(err)
	}
	return after, nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actor Actor, productID int64) error {
	if err := requirePermission(actor, model.PermDeleteCatalog); err != nil {
		return err
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return mapRepoErr(err, "product")
	}
	if err := u.productRepo.Delete(ctx, productID); err != nil {
		return mapRepoErr(err, "product")
	}
	discardImage(ctx, u.images, before.Image)

	if err := u.auditRepo.Create(ctx, newAuditLog(actor, model.AuditActionDelete, model.AuditResourceProduct, productID, before, nil, u.clock.Now())); err != nil {
		return internalError(err)
	}
	return nil
}

func (u *ProductUsecase) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	if _, err := u.categoryRepo.FindByID(ctx, *categoryID); err != nil {
		return mapRepoErr(err, "category")
	}
	return nil
}

func requirePermission(actor Actor, p model.Permission) error {
	if !actor.Authenticated() {
		return errUnauthorized()
	}
	if !actor.Can(p) {
		return errForbidden()
	}
	return nil
}

// 画像が無ければnil
func saveImage(ctx context.Context, images ImageStorage, upload *ImageUpload) (*string, error) {
	if upload == nil || upload.Content == nil {
		return nil, nil
	}
	path, err := images.Save(ctx, upload.Filename, upload.Content)
	if err != nil {
		return nil, internalError(err)
	}
	return &path, nil
}

// 失敗しても処理は続ける（ファイルが残るだけ）
func discardImage(ctx context.Context, images ImageStorage, path *string) {
	if path == nil || *path == "" {
		return
	}
	_ = images.Delete(ctx, *path)
}
