package dgc_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glossarium/dgc/internal/testutil"
	"github.com/glossarium/dgc/pkg/dgc"
	"github.com/glossarium/dgc/pkg/dgctest"
)

func newTestClient(t *testing.T, opts ...dgc.Option) (*dgc.Client, *dgctest.Server) {
	t.Helper()
	srv := dgctest.NewServer()
	t.Cleanup(srv.Close)
	opts = append([]dgc.Option{dgc.WithLogger(testutil.NewTestLogger(t))}, opts...)
	client, err := dgc.New(srv.URL(), opts...)
	require.NoError(t, err)
	return client, srv
}

func TestAssetLifecycle(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	store := srv.Store()

	created, err := client.Assets.Create(ctx, dgc.CreateAssetRequest{
		Name:        "orders",
		DomainID:    store.DefaultDomainID(),
		TypeID:      store.AssetTypeID("Table"),
		DisplayName: "Orders",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "orders", created.Name)
	require.NotNil(t, created.Type)
	assert.Equal(t, "Table", created.Type.Name)

	got, err := client.Assets.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	err = client.Assets.SetAttribute(ctx, created.ID, "Description", []any{"fact table"})
	require.NoError(t, err)
	attrs, err := client.Attributes.ForAsset(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "fact table", attrs[0].Value)

	require.NoError(t, client.Assets.Delete(ctx, created.ID))
	_, err = client.Assets.Get(ctx, created.ID)
	assert.ErrorIs(t, err, dgc.ErrNotFound)
}

func TestAssetCreateValidation(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.Assets.Create(ctx, dgc.CreateAssetRequest{DomainID: "not-a-uuid", Name: "x"})
	assert.Error(t, err)

	_, err = client.Assets.Create(ctx, dgc.CreateAssetRequest{Name: "x"})
	assert.Error(t, err)

	_, err = client.Assets.Get(ctx, "not-a-uuid")
	assert.Error(t, err)
}

func TestAssetFind(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	store := srv.Store()

	for _, name := range []string{"orders", "orders_staging", "customers"} {
		_, err := client.Assets.Create(ctx, dgc.CreateAssetRequest{
			Name:     name,
			DomainID: store.DefaultDomainID(),
			TypeID:   store.AssetTypeID("Table"),
		})
		require.NoError(t, err)
	}

	page, err := client.Assets.Find(ctx, dgc.FindAssetsOptions{Name: "orders"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = client.Assets.Find(ctx, dgc.FindAssetsOptions{
		Name: "orders", NameMatch: "START",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestAssetPaginate(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	store := srv.Store()

	for i := 0; i < 7; i++ {
		store.AddAsset(dgc.Asset{Name: "seeded"})
	}

	p := client.Assets.Paginate(ctx, dgc.FindAssetsOptions{}, 3)
	all, err := p.Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.Equal(t, 3, srv.CallsTo(http.MethodGet, "/assets"))
}

func TestRelationLifecycle(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	store := srv.Store()

	src := store.AddAsset(dgc.Asset{Name: "src"})
	tgt := store.AddAsset(dgc.Asset{Name: "tgt"})
	other := store.AddAsset(dgc.Asset{Name: "other"})

	rel, err := client.Relations.Create(ctx, dgc.CreateRelationRequest{
		SourceID: src,
		TargetID: tgt,
		TypeID:   store.RelationTypeID("is source for"),
	})
	require.NoError(t, err)
	assert.Equal(t, "src", rel.Source.Name)
	assert.Equal(t, "is source for", rel.Type.Name)

	updated, err := client.Relations.Update(ctx, dgc.UpdateRelationRequest{
		ID:       rel.ID,
		TargetID: other,
	})
	require.NoError(t, err)
	assert.Equal(t, "other", updated.Target.Name)

	require.NoError(t, client.Relations.Delete(ctx, rel.ID))
	_, err = client.Relations.Get(ctx, rel.ID)
	assert.ErrorIs(t, err, dgc.ErrNotFound)
}

func TestRelationCreateValidation(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.Relations.Create(ctx, dgc.CreateRelationRequest{
		SourceID: "bad", TargetID: "also bad",
	})
	assert.Error(t, err)

	_, err = client.Relations.Create(ctx, dgc.CreateRelationRequest{
		SourceID:     "11111111-2222-3333-4444-555555555555",
		TargetID:     "66666666-7777-8888-9999-000000000000",
		StartingDate: -1,
	})
	assert.Error(t, err)
}

func TestDomainsAndCommunities(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	store := srv.Store()

	com, err := client.Communities.Create(ctx, dgc.CreateCommunityRequest{
		Name:     "Finance",
		ParentID: store.DefaultCommunityID(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Finance", com.Name)
	require.NotNil(t, com.Parent)

	dom, err := client.Domains.Create(ctx, dgc.CreateDomainRequest{
		Name:        "Finance Glossary",
		CommunityID: com.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Finance Glossary", dom.Name)

	page, err := client.Domains.Find(ctx, dgc.FindDomainsOptions{Name: "Finance Glossary"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, dom.ID, page.Results[0].ID)
}

func TestTypesListings(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	page, err := client.Types.AssetTypes(ctx, dgc.FindTypesOptions{Name: "Table"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, srv.Store().AssetTypeID("Table"), page.Results[0].ID)

	rels, err := client.Types.RelationTypes(ctx, dgc.FindRelationTypesOptions{Role: "transforms"})
	require.NoError(t, err)
	require.Equal(t, 1, rels.Total)
	assert.Equal(t, "transforms", rels.Results[0].Role)

	statuses, err := client.Types.Statuses(ctx, dgc.FindTypesOptions{})
	require.NoError(t, err)
	assert.NotZero(t, statuses.Total)
}

func TestTypesSnapshot(t *testing.T) {
	client, srv := newTestClient(t)

	snap, err := client.Types.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, srv.Store().AssetTypeID("Table"), snap.AssetTypes["Table"])
	assert.Equal(t, srv.Store().RelationTypeID("is source for"), snap.RelationTypes["is source for"])
	assert.NotEmpty(t, snap.Statuses["Approved"])
	assert.NotEmpty(t, snap.AttributeTypes["Description"])
	assert.NotEmpty(t, snap.Domains["Default Domain"])
	assert.NotEmpty(t, snap.Communities["Data Office"])
}

func TestSearch(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	srv.Store().AddAsset(dgc.Asset{Name: "customer_orders"})
	srv.Store().AddAsset(dgc.Asset{Name: "suppliers"})

	page, err := client.Search.Search(ctx, dgc.SearchRequest{Keywords: "orders"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "customer_orders", page.Results[0].Resource.Name)
}

func TestUsersCurrent(t *testing.T) {
	client, _ := newTestClient(t)

	user, err := client.Users.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", user.UserName)
}

func TestErrorMapping(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	srv.FailNext(http.MethodGet, "/users/current", http.StatusUnauthorized, "bad credentials")
	_, err := client.Users.Current(ctx)
	assert.ErrorIs(t, err, dgc.ErrUnauthorized)

	srv.FailNext(http.MethodGet, "/users/current", http.StatusForbidden, "no access")
	_, err = client.Users.Current(ctx)
	assert.ErrorIs(t, err, dgc.ErrForbidden)

	srv.FailNext(http.MethodGet, "/users/current", http.StatusBadGateway, "upstream down")
	_, err = client.Users.Current(ctx)
	assert.ErrorIs(t, err, dgc.ErrServer)

	var apiErr *dgc.Error
	srv.FailNext(http.MethodGet, "/users/current", http.StatusTeapot, "odd")
	_, err = client.Users.Current(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTeapot, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "odd")
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	client, srv := newTestClient(t, dgc.WithRetry(2))

	srv.FailNext(http.MethodGet, "/users/current", http.StatusServiceUnavailable, "restarting")
	user, err := client.Users.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", user.UserName)
	assert.Equal(t, 2, srv.CallsTo(http.MethodGet, "/users/current"))
}

func TestRetryDoesNotRepeatClientErrors(t *testing.T) {
	client, srv := newTestClient(t, dgc.WithRetry(3))

	srv.FailAlways(http.MethodGet, "/users/current", http.StatusNotFound, "gone")
	_, err := client.Users.Current(context.Background())
	assert.ErrorIs(t, err, dgc.ErrNotFound)
	assert.Equal(t, 1, srv.CallsTo(http.MethodGet, "/users/current"))
}

func TestBatchCreateAssets(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()
	store := srv.Store()

	names := []string{"t1", "t2", "t3", "t4", "t5"}
	batch := &dgc.Batch[string, *dgc.Asset]{Concurrency: 3}
	result := batch.Run(ctx, names, func(ctx context.Context, name string) (*dgc.Asset, error) {
		return client.Assets.Create(ctx, dgc.CreateAssetRequest{
			Name:     name,
			DomainID: store.DefaultDomainID(),
			TypeID:   store.AssetTypeID("Table"),
		})
	})

	assert.Equal(t, 5, result.SuccessCount())
	assert.Zero(t, result.ErrorCount())
	assert.Len(t, store.Assets(), 5)
}

func TestTelemetryRecordsRequests(t *testing.T) {
	var counter dgc.CountingRecorder
	client, srv := newTestClient(t, dgc.WithTelemetry(&counter))
	ctx := context.Background()

	_, err := client.Users.Current(ctx)
	require.NoError(t, err)
	srv.FailNext(http.MethodGet, "/users/current", http.StatusInternalServerError, "boom")
	_, _ = client.Users.Current(ctx)

	snap := counter.Snapshot()
	assert.Equal(t, int64(2), snap.Requests)
	assert.Equal(t, int64(1), snap.Errors)
}
