package repository

import (
	"context"

	"foodorder/internal/domain/model"

	"gorm.io/gorm"
)

// トッピング
type ToppingGormRepository struct {
	db *gorm.DB
}

func NewToppingGormRepository(db *gorm.DB) *ToppingGormRepository {
	return &ToppingGormRepository{db: db}
}

func (r *ToppingGormRepository) List(ctx context.Context) ([]model.Topping, error) {
	var ts []model.Topping
	if err := r.db.WithContext(ctx).Order("id asc").Find(&ts).Error; err != nil {
		return []model.Topping{}, err
	}
	return ts, nil
}

func (r *ToppingGormRepository) FindByID(ctx context.Context, id int64) (model.Topping, error) {
	var t model.Topping
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return model.Topping{}, translate(err)
	}
	return t, nil
}

func (r *ToppingGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Topping, error) {
	var ts []model.Topping
	if len(ids) == 0 {
		return ts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *ToppingGormRepository) Create(ctx context.Context, t *model.Topping) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *ToppingGormRepository) Update(ctx context.Context, t *model.Topping) error {
	return affected(r.db.WithContext(ctx).Model(&model.Topping{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"name":  t.Name,
		"price": t.Price,
		"image": t.Image,
	}))
}

func (r *ToppingGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Topping{}, id))
}

// サイドメニュー
type SideOptionGormRepository struct {
	db *gorm.DB
}

func NewSideOptionGormRepository(db *gorm.DB) *SideOptionGormRepository {
	return &SideOptionGormRepository{db: db}
}

func (r *SideOptionGormRepository) List(ctx context.Context) ([]model.SideOption, error) {
	var ss []model.SideOption
	if err := r.db.WithContext(ctx).Order("id asc").Find(&ss).Error; err != nil {
		return []model.SideOption{}, err
	}
	return ss, nil
}

func (r *SideOptionGormRepository) FindByID(ctx context.Context, id int64) (model.SideOption, error) {
	var s model.SideOption
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return model.SideOption{}, translate(err)
	}
	return s, nil
}

func (r *SideOptionGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.SideOption, error) {
	var ss []model.SideOption
	if len(ids) == 0 {
		return ss, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&ss).Error; err != nil {
		return nil, err
	}
	return ss, nil
}

func (r *SideOptionGormRepository) Create(ctx context.Context, s *model.SideOption) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *SideOptionGormRepository) Update(ctx context.Context, s *model.SideOption) error {
	return affected(r.db.WithContext(ctx).Model(&model.SideOption{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":  s.Name,
		"price": s.Price,
		"image": s.Image,
	}))
}

func (r *SideOptionGormRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.db.WithContext(ctx).Delete(&model.SideOption{}, id))
}
