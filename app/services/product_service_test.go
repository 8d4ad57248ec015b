package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/storage"
)

// memDisk keeps uploads in a map so upload paths can be asserted
// without touching the filesystem.
type memDisk struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemDisk() *memDisk { return &memDisk{files: map[string][]byte{}} }

func (d *memDisk) Put(p string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[p] = content
	return nil
}

func (d *memDisk) PutStream(p string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return d.Put(p, content)
}

func (d *memDisk) Get(p string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	content, ok := d.files[p]
	if !ok {
		return nil, fmt.Errorf("memdisk: %s not found", p)
	}
	return content, nil
}

func (d *memDisk) GetStream(p string) (io.ReadCloser, error) {
	content, err := d.Get(p)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (d *memDisk) Exists(p string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.files[p]
	return ok
}

func (d *memDisk) Size(p string) (int64, error) {
	content, err := d.Get(p)
	if err != nil {
		return 0, err
	}
	return int64(len(content)), nil
}

func (d *memDisk) URL(p string) string { return "mem://" + p }

func (d *memDisk) Delete(p string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, p)
	return nil
}

func (d *memDisk) Move(src, dst string) error {
	content, err := d.Get(src)
	if err != nil {
		return err
	}
	if err := d.Put(dst, content); err != nil {
		return err
	}
	return d.Delete(src)
}

func (d *memDisk) Files(directory string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for p := range d.files {
		if path.Dir(p) == strings.TrimRight(directory, "/") {
			out = append(out, p)
		}
	}
	return out, nil
}

func setupDisk(t *testing.T) *memDisk {
	t.Helper()
	d := newMemDisk()
	storage.RegisterDisk("local", d)
	storage.UseDefault("local")
	return d
}

// fileHeader builds a real multipart file header the way an HTTP
// handler would receive one.
func fileHeader(t *testing.T, field, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File[field][0]
}

func seedCategory(t *testing.T, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name, Slug: strings.ToLower(name)}
	require.NoError(t, database.DB.Create(&category).Error)
	return category
}

func TestCreateAndStorefrontListsPublishedOnly(t *testing.T) {
	setupDB(t)
	seller := seedUser(t, "seller@lawlaw.test", "", auth.RoleSeller, true)
	category := seedCategory(t, "Delicacies")
	svc := NewProductService()

	published, err := svc.Create(seller.ID, ProductInput{
		Name: "Lawlaw Tinapa", CategoryID: category.ID, Price: 120, Stock: 10,
	})
	require.NoError(t, err)
	assert.True(t, published.Published)
	assert.True(t, strings.HasPrefix(published.Slug, "lawlaw-tinapa-"), "slug %q", published.Slug)

	hidden := false
	draft, err := svc.Create(seller.ID, ProductInput{
		Name: "Draft Batch", CategoryID: category.ID, Price: 80, Stock: 5,
		Published: &hidden,
	})
	require.NoError(t, err)
	assert.False(t, draft.Published)

	storefront, _, err := svc.Storefront(0, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, storefront, 1)
	assert.Equal(t, published.ID, storefront[0].ID)

	mine, _, err := svc.ForSeller(seller.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestBySlugHidesUnpublishedAndUnknown(t *testing.T) {
	setupDB(t)
	seller := seedUser(t, "seller@lawlaw.test", "", auth.RoleSeller, true)
	category := seedCategory(t, "Delicacies")
	svc := NewProductService()

	hidden := false
	draft, err := svc.Create(seller.ID, ProductInput{
		Name: "Draft Batch", CategoryID: category.ID, Price: 80, Stock: 5,
		Published: &hidden,
	})
	require.NoError(t, err)

	_, err = svc.BySlug(draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.BySlug("no-such-product")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	setupDB(t)
	owner := seedUser(t, "owner@lawlaw.test", "", auth.RoleSeller, true)
	rival := seedUser(t, "rival@lawlaw.test", "", auth.RoleSeller, true)
	admin := seedUser(t, "admin@lawlaw.test", "", auth.RoleAdmin, true)
	category := seedCategory(t, "Delicacies")
	svc := NewProductService()

	product, err := svc.Create(owner.ID, ProductInput{
		Name: "Lawlaw Tinapa", CategoryID: category.ID, Price: 120, Stock: 10,
	})
	require.NoError(t, err)

	in := ProductInput{Name: "Lawlaw Tinapa XL", CategoryID: category.ID, Price: 150, Stock: 8}

	_, err = svc.Update(product.ID, in, rival.ID, auth.RoleSeller)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(product.ID, in, owner.ID, auth.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, "Lawlaw Tinapa XL", updated.Name)
	assert.Equal(t, 150.0, updated.Price)

	_, err = svc.Update(product.ID, in, admin.ID, auth.RoleAdmin)
	assert.NoError(t, err)

	_, err = svc.Update(9999, in, owner.ID, auth.RoleSeller)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachImageStoresAndReplaces(t *testing.T) {
	setupDB(t)
	disk := setupDisk(t)
	seller := seedUser(t, "seller@lawlaw.test", "", auth.RoleSeller, true)
	category := seedCategory(t, "Delicacies")
	svc := NewProductService()

	product, err := svc.Create(seller.ID, ProductInput{
		Name: "Lawlaw Tinapa", CategoryID: category.ID, Price: 120, Stock: 10,
	})
	require.NoError(t, err)

	_, err = svc.AttachImage(product.ID, fileHeader(t, "image", "cover.gif", "gif"), seller.ID, auth.RoleSeller)
	assert.ErrorIs(t, err, ErrInvalid)

	withImage, err := svc.AttachImage(product.ID, fileHeader(t, "image", "cover.png", "png-bytes"), seller.ID, auth.RoleSeller)
	require.NoError(t, err)
	require.NotEmpty(t, withImage.ImagePath)
	assert.True(t, disk.Exists(withImage.ImagePath))

	replaced, err := svc.AttachImage(product.ID, fileHeader(t, "image", "new.jpg", "jpg-bytes"), seller.ID, auth.RoleSeller)
	require.NoError(t, err)
	assert.NotEqual(t, withImage.ImagePath, replaced.ImagePath)
	assert.False(t, disk.Exists(withImage.ImagePath), "old image should be removed")
	assert.True(t, disk.Exists(replaced.ImagePath))
}

func TestDeleteRemovesProductAndImage(t *testing.T) {
	setupDB(t)
	disk := setupDisk(t)
	seller := seedUser(t, "seller@lawlaw.test", "", auth.RoleSeller, true)
	category := seedCategory(t, "Delicacies")
	svc := NewProductService()

	product, err := svc.Create(seller.ID, ProductInput{
		Name: "Lawlaw Tinapa", CategoryID: category.ID, Price: 120, Stock: 10,
	})
	require.NoError(t, err)
	product, err = svc.AttachImage(product.ID, fileHeader(t, "image", "cover.png", "png-bytes"), seller.ID, auth.RoleSeller)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(product.ID, seller.ID, auth.RoleSeller))
	assert.False(t, disk.Exists(product.ImagePath))

	_, err = svc.BySlug(product.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(product.ID, seller.ID, auth.RoleSeller), ErrNotFound)
}

func TestCategoriesListAndCreate(t *testing.T) {
	setupDB(t)
	svc := NewProductService()

	created, err := svc.CreateCategory("Dried Goods")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Slug, "dried-goods"))

	categories, err := svc.Categories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Dried Goods", categories[0].Name)
}
