package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openeshop/eshop/internal/domain"
	"github.com/openeshop/eshop/internal/errs"
	"github.com/openeshop/eshop/pkg/common"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().AutoMigrate(domain.Tables...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           common.UUIDint64(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price *float64) *domain.Product {
	t.Helper()
	category := &domain.Category{ID: common.UUIDint64(), Name: name + "-category"}
	require.NoError(t, db.Create(category).Error)
	product := &domain.Product{
		ID:         common.UUIDint64(),
		Name:       name,
		Image:      "/public/uploads/" + name + ".png",
		Price:      price,
		CategoryID: category.ID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func price(v float64) *float64 {
	return &v
}

func validInput(userID int64, lines ...LineInput) CreateInput {
	return CreateInput{
		ShippingAddress1: "42 Main Street",
		City:             "Springfield",
		Zip:              "12345",
		Country:          "US",
		Phone:            "+15551234567",
		UserID:           userID,
		Lines:            lines,
	}
}

func TestCreateOrderSnapshotsTotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "alice")
	p1 := seedProduct(t, db, "keyboard", price(10))
	p2 := seedProduct(t, db, "mouse", price(5))

	order, err := svc.Create(context.Background(), validInput(user.ID,
		LineInput{ProductID: p1.ID, Quantity: 2},
		LineInput{ProductID: p2.ID, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, 25.0, order.TotalPrice)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Len(t, order.OrderItems, 2)
	assert.False(t, order.DateOrdered.IsZero())

	// price changes after placement never alter the snapshot
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", p1.ID).
		Update("price", 999).Error)
	got, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.TotalPrice)
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "bob")
	p1 := seedProduct(t, db, "cable", price(3))
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput(user.ID))
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = svc.Create(ctx, validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 0}))
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = svc.Create(ctx, validInput(user.ID, LineInput{ProductID: 12345, Quantity: 1}))
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	in := validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1})
	in.Zip = "abcde"
	_, err = svc.Create(ctx, in)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	in = validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1})
	in.Phone = "not-a-phone"
	_, err = svc.Create(ctx, in)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	in = validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1})
	in.Status = "Lost"
	_, err = svc.Create(ctx, in)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = svc.Create(ctx, validInput(98765, LineInput{ProductID: p1.ID, Quantity: 1}))
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	// validation happens before any write
	var items int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.EqualValues(t, 0, items)
}

func TestCreateOrderProductWithoutPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "carol")
	p1 := seedProduct(t, db, "mystery", nil)

	_, err := svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1}))
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	var orderCount int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount)
}

func TestCreateOrderFinalWriteFailureLeavesItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "mallory")
	p1 := seedProduct(t, db, "vase", price(12))

	// force the final order write to fail after the items are persisted
	require.NoError(t, db.Migrator().DropTable(&domain.Order{}))

	_, err := svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1}))
	assert.True(t, errs.IsKind(err, errs.KindDependency))

	// no order was created, the written items stay for the sweep to collect
	var items int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.EqualValues(t, 1, items)
}

func TestGetOrderDenormalized(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "dave")
	p1 := seedProduct(t, db, "monitor", price(120))

	order, err := svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1}))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "dave", got.User.Name)
	assert.Empty(t, got.User.Email)
	require.Len(t, got.OrderItems, 1)
	require.NotNil(t, got.OrderItems[0].Product)
	assert.Equal(t, "monitor", got.OrderItems[0].Product.Name)
	require.NotNil(t, got.OrderItems[0].Product.Category)
	assert.Equal(t, "monitor-category", got.OrderItems[0].Product.Category.Name)

	_, err = svc.Get(context.Background(), 424242)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "erin")
	p1 := seedProduct(t, db, "lamp", price(15))

	first, err := svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1}))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 2}))
	require.NoError(t, err)

	// force distinct ordering timestamps
	require.NoError(t, db.Model(&domain.Order{}).Where("id = ?", first.ID).
		Update("date_ordered", time.Now().Add(-time.Hour)).Error)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "erin", list[0].User.Name)
}

func TestListByUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	p1 := seedProduct(t, db, "desk", price(200))

	_, err := svc.Create(context.Background(),
		validInput(alice.ID, LineInput{ProductID: p1.ID, Quantity: 1}))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(),
		validInput(bob.ID, LineInput{ProductID: p1.ID, Quantity: 1}))
	require.NoError(t, err)

	list, err := svc.ListByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].OrderItems, 1)
	require.NotNil(t, list[0].OrderItems[0].Product)
	assert.Equal(t, "desk", list[0].OrderItems[0].Product.Name)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "frank")
	p1 := seedProduct(t, db, "chair", price(80))

	order, err := svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1}))
	require.NoError(t, err)

	got, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)

	_, err = svc.UpdateStatus(context.Background(), order.ID, "Teleported")
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = svc.UpdateStatus(context.Background(), 424242, domain.OrderStatusShipped)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "grace")
	p1 := seedProduct(t, db, "shelf", price(40))

	order, err := svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 2}))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), order.ID))

	var items int64
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.EqualValues(t, 0, items)

	err = svc.Delete(context.Background(), order.ID)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestTotalSales(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.TotalSales(context.Background())
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	user := seedUser(t, db, "heidi")
	p1 := seedProduct(t, db, "rug", price(30))
	_, err = svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 2}))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(),
		validInput(user.ID, LineInput{ProductID: p1.ID, Quantity: 1}))
	require.NoError(t, err)

	total, err := svc.TotalSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90.0, total)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestValidateShipping(t *testing.T) {
	base := validInput(1)
	assert.NoError(t, validateShipping(base))

	in := base
	in.ShippingAddress1 = ""
	assert.Error(t, validateShipping(in))

	in = base
	in.City = ""
	assert.Error(t, validateShipping(in))

	in = base
	in.Country = ""
	assert.Error(t, validateShipping(in))

	in = base
	in.Zip = "1234"
	assert.Error(t, validateShipping(in))

	in = base
	in.Phone = "0123"
	assert.Error(t, validateShipping(in))
}
