package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
)

type catalogRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repo      port.CatalogReader
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestCatalogRepositorySuite(t *testing.T) {
	// Verifies no leaks after all tests in the suite run.
	defer goleak.VerifyNone(t)

	suite.Run(t, new(catalogRepositorySuite))
}

// before all tests in the suite
func (suite *catalogRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.repo = repository.NewCatalog(suite.pool)
}

// after all tests in the suite
func (suite *catalogRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *catalogRepositorySuite) TestGetProduct() {
	t := suite.T()
	ctx := t.Context()

	categoryName := gofakeit.ProductCategory() + " " + gofakeit.UUID()
	brandName := gofakeit.Company() + " " + gofakeit.UUID()

	productID := suite.seedProduct(ctx, "Wireless Mouse", "24.50", categoryName, brandName)

	product, err := suite.repo.GetProduct(ctx, productID)
	require.NoError(t, err)

	assert.Equal(t, productID, product.ID)
	assert.Equal(t, "Wireless Mouse", product.Title)
	assert.Equal(t, "24.50", product.Price.Amount.StringFixed(2))
	assert.Equal(t, "USD", product.Price.Currency.String())
	assert.Equal(t, categoryName, product.CategoryName)
	assert.Equal(t, brandName, product.BrandName)
}

func (suite *catalogRepositorySuite) TestGetProduct_NoCategoryNoBrand() {
	t := suite.T()
	ctx := t.Context()

	productID := uuid.New()

	_, err := suite.pool.Exec(ctx, `
		INSERT INTO products (id, title, price_amount, price_currency)
		VALUES ($1, $2, $3, $4)`,
		productID, "Bare Product", "9.99", "USD")
	require.NoError(t, err)

	product, err := suite.repo.GetProduct(ctx, productID)
	require.NoError(t, err)

	assert.Empty(t, product.CategoryName)
	assert.Empty(t, product.BrandName)
}

func (suite *catalogRepositorySuite) TestGetProduct_NotFound() {
	t := suite.T()

	_, err := suite.repo.GetProduct(t.Context(), uuid.New())
	require.ErrorIs(t, err, port.ErrProductNotFound)
}

func (suite *catalogRepositorySuite) seedProduct(ctx context.Context, title, price, categoryName, brandName string) uuid.UUID {
	suite.T().Helper()

	var categoryID uuid.UUID
	err := suite.pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1) RETURNING id`,
		categoryName).Scan(&categoryID)
	suite.NoError(err)

	var brandID uuid.UUID
	err = suite.pool.QueryRow(ctx, `
		INSERT INTO brands (name) VALUES ($1) RETURNING id`,
		brandName).Scan(&brandID)
	suite.NoError(err)

	productID := uuid.New()
	_, err = suite.pool.Exec(ctx, `
		INSERT INTO products (id, title, price_amount, price_currency, category_id, brand_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		productID, title, price, "USD", categoryID, brandID)
	suite.NoError(err)

	return productID
}
