package service_test

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	"hotel/infras/s3"
	s3Mocks "hotel/infras/s3/mocks"
	roomMocks "hotel/internal/domains/room/mocks"
	roomModel "hotel/internal/domains/room/model"
	imageMocks "hotel/internal/domains/roomimage/mocks"
	"hotel/internal/domains/roomimage/model"
	"hotel/internal/domains/roomimage/model/dto"
	"hotel/internal/domains/roomimage/service"
	cacheMocks "hotel/shared/cache/mocks"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	repoMocks "hotel/shared/repository/mocks"
)

const (
	roomID = "3a1f9c7e-2b4d-4e6f-8a0b-1c2d3e4f5a6b"
	cdn    = "https://cdn.example.com/"
)

// table keeps room_images rows in memory so that sequences of calls can be checked.
type table struct {
	rows    []model.RoomImage
	updates int
}

func filterValue(filter gDto.FilterGroup, field string) (any, bool) {
	for _, f := range filter.Filters {
		if filter, ok := f.(gDto.Filter); ok && filter.Field == field {
			return filter.Value, true
		}
	}

	return nil, false
}

func (tb *table) find(id string) int {
	return slices.IndexFunc(tb.rows, func(row model.RoomImage) bool { return row.ID == id })
}

func (tb *table) primaries() []string {
	var ids []string

	for _, row := range tb.rows {
		if row.IsPrimary {
			ids = append(ids, row.ID)
		}
	}

	return ids
}

func (tb *table) sorted() []model.RoomImage {
	rows := slices.Clone(tb.rows)
	slices.SortStableFunc(rows, func(a, b model.RoomImage) int { return a.SortOrder - b.SortOrder })

	return rows
}

func (tb *table) apply(fields map[string]any, filter gDto.FilterGroup) {
	tb.updates++

	for i := range tb.rows {
		if id, ok := filterValue(filter, model.FieldID); ok && tb.rows[i].ID != id {
			continue
		}

		if primary, ok := filterValue(filter, model.FieldIsPrimary); ok && tb.rows[i].IsPrimary != primary {
			continue
		}

		if v, ok := fields[model.FieldIsPrimary].(bool); ok {
			tb.rows[i].IsPrimary = v
		}

		if v, ok := fields[model.FieldSortOrder].(int); ok {
			tb.rows[i].SortOrder = v
		}
	}
}

type fixture struct {
	svc   service.RoomImage
	cfg   *config.Config
	table *table
	repo  *imageMocks.MockRoomImage
	s3    *s3Mocks.MockS3
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		cfg:   &config.Config{},
		table: &table{},
		repo:  imageMocks.NewMockRoomImage(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}
	f.cfg.Cache.TTL = 3600

	tx := repoMocks.NewMockTransaction(ctrl)
	tx.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		}).
		AnyTimes()

	roomRepo := roomMocks.NewMockRoom(ctrl)
	roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID}, nil).AnyTimes()

	redisCache := cacheMocks.NewMockRedisCache(ctrl)
	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *sqlx.Tx, gDto.FilterGroup) (int, error) {
			return len(f.table.rows), nil
		}).AnyTimes()
	f.repo.EXPECT().MaxOrderTx(gomock.Any(), gomock.Any(), roomID).
		DoAndReturn(func(context.Context, *sqlx.Tx, string) (int, error) {
			maxOrder := -1
			for _, row := range f.table.rows {
				maxOrder = max(maxOrder, row.SortOrder)
			}

			return maxOrder, nil
		}).AnyTimes()
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, row model.RoomImage) error {
			f.table.rows = append(f.table.rows, row)

			return nil
		}).AnyTimes()
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
			f.table.apply(fields, filter)

			return nil
		}).AnyTimes()
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			f.table.apply(fields, filter)

			return nil
		}).AnyTimes()
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, gDto.QueryParams, gDto.FilterGroup, ...string) ([]model.RoomImage, error) {
			return f.table.sorted(), nil
		}).AnyTimes()
	lookup := func(filter gDto.FilterGroup) model.RoomImage {
		id, _ := filterValue(filter, model.FieldID)
		if i := f.table.find(id.(string)); i >= 0 {
			return f.table.rows[i]
		}

		return model.RoomImage{}
	}
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.RoomImage, error) {
			return lookup(filter), nil
		}).AnyTimes()
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (model.RoomImage, error) {
			return lookup(filter), nil
		}).AnyTimes()
	f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) error {
			id, _ := filterValue(filter, model.FieldID)
			f.table.rows = slices.DeleteFunc(f.table.rows, func(row model.RoomImage) bool { return row.ID == id })

			return nil
		}).AnyTimes()
	f.repo.EXPECT().FirstByOrderTx(gomock.Any(), gomock.Any(), roomID).
		DoAndReturn(func(context.Context, *sqlx.Tx, string) (model.RoomImage, error) {
			rows := f.table.sorted()
			if len(rows) == 0 {
				return model.RoomImage{}, nil
			}

			return rows[0], nil
		}).AnyTimes()

	f.s3.EXPECT().KeyFromURL(gomock.Any()).DoAndReturn(func(url string) string {
		return url[len(cdn):]
	}).AnyTimes()

	f.svc = service.New(f.repo, roomRepo, tx, f.s3, f.cfg, redisCache, mocks.NewOtel())

	return f
}

func (f *fixture) expectUpload(times int) {
	f.s3.EXPECT().Upload(gomock.Any(), "rooms/"+roomID, gomock.Any(), "image/png", gomock.Any()).
		DoAndReturn(func(_ context.Context, directory, fileName, _ string, _ io.Reader) (s3.Object, error) {
			key := directory + "/" + fileName

			return s3.Object{Key: key, URL: cdn + key}, nil
		}).Times(times)
}

func addRequest(isPrimary bool) dto.AddImageRequest {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "image/png")

	return dto.AddImageRequest{
		RoomID:    roomID,
		File:      &multipart.FileHeader{Filename: "Lobby.PNG", Header: header, Size: 1024},
		IsPrimary: isPrimary,
	}
}

func (f *fixture) add(t *testing.T, isPrimary bool) dto.RoomImageResponse {
	t.Helper()

	res, err := f.svc.Add(context.Background(), addRequest(isPrimary))
	require.NoError(t, err)

	return res
}

func TestRoomImageService_Add(t *testing.T) {
	t.Run("three primary adds leave one primary", func(t *testing.T) {
		f := newFixture(t)
		f.expectUpload(3)

		f.add(t, true)
		f.add(t, true)
		last := f.add(t, true)

		assert.Equal(t, []string{last.ID}, f.table.primaries())

		orders := []int{}
		for _, row := range f.table.sorted() {
			orders = append(orders, row.SortOrder)
		}

		assert.Equal(t, []int{0, 1, 2}, orders)
	})

	t.Run("first image becomes primary", func(t *testing.T) {
		f := newFixture(t)
		f.expectUpload(2)

		first := f.add(t, false)
		second := f.add(t, false)

		assert.True(t, first.IsPrimary)
		assert.False(t, second.IsPrimary)
		assert.Equal(t, []string{first.ID}, f.table.primaries())
		assert.Regexp(t, `^https://cdn\.example\.com/rooms/`+roomID+`/[0-9a-f-]{36}\.png$`, first.Path)
	})

	t.Run("explicit order", func(t *testing.T) {
		f := newFixture(t)
		f.expectUpload(1)

		order := 7
		req := addRequest(false)
		req.Order = &order

		res, err := f.svc.Add(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 7, res.SortOrder)
	})
}

func TestRoomImageService_Add_RemovesUploadOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		insertErr error
		wantCode  int
	}{
		{name: "database error", insertErr: errors.New("connection reset"), wantCode: http.StatusInternalServerError},
		{
			name:      "concurrent primary",
			insertErr: &pq.Error{Code: "23505", Constraint: model.ConstraintSinglePrimary},
			wantCode:  http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := imageMocks.NewMockRoomImage(ctrl)
			storage := s3Mocks.NewMockS3(ctrl)
			roomRepo := roomMocks.NewMockRoom(ctrl)
			tx := repoMocks.NewMockTransaction(ctrl)

			roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID}, nil)
			tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error { return fn(nil) })

			storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(s3.Object{Key: "rooms/x.png", URL: cdn + "rooms/x.png"}, nil)
			storage.EXPECT().Delete(gomock.Any(), "rooms/x.png").Return(nil)

			repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
			repo.EXPECT().MaxOrderTx(gomock.Any(), gomock.Any(), roomID).Return(-1, nil)
			repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.insertErr)

			svc := service.New(repo, roomRepo, tx, storage, &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

			_, err := svc.Add(context.Background(), addRequest(false))

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestRoomImageService_Add_RoomNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	roomRepo := roomMocks.NewMockRoom(ctrl)
	roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	tracer := mocks.NewRecorder()

	svc := service.New(imageMocks.NewMockRoomImage(ctrl), roomRepo, repoMocks.NewMockTransaction(ctrl),
		s3Mocks.NewMockS3(ctrl), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), tracer)

	_, err := svc.Add(context.Background(), addRequest(true))

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	scope := tracer.Find("service.AddImage")
	require.NotNil(t, scope)
	assert.True(t, scope.Ended())
	assert.Equal(t, []error{err}, scope.Errors())
}

func TestRoomImageService_Reorder(t *testing.T) {
	f := newFixture(t)
	f.expectUpload(3)

	a := f.add(t, false)
	b := f.add(t, false)
	c := f.add(t, false)

	req := dto.ReorderRequest{Images: []dto.ReorderItem{
		{ID: c.ID, Order: 0},
		{ID: a.ID, Order: 1},
		{ID: b.ID, Order: 2},
	}}

	first, err := f.svc.Reorder(context.Background(), roomID, req)
	require.NoError(t, err)

	updates := f.table.updates

	second, err := f.svc.Reorder(context.Background(), roomID, req)
	require.NoError(t, err)

	ids := func(res dto.RoomImagesResponse) []string {
		out := []string{}
		for _, image := range res.Images {
			out = append(out, image.ID)
		}

		return out
	}

	assert.Equal(t, []string{c.ID, a.ID, b.ID}, ids(first))
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, updates, f.table.updates)
	assert.Equal(t, []string{a.ID}, f.table.primaries())
}

func TestRoomImageService_Reorder_UnknownImage(t *testing.T) {
	f := newFixture(t)
	f.expectUpload(1)

	f.add(t, false)

	_, err := f.svc.Reorder(context.Background(), roomID, dto.ReorderRequest{Images: []dto.ReorderItem{
		{ID: "9d9d9d9d-0000-4000-8000-000000000000", Order: 0},
	}})

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestRoomImageService_SetPrimary(t *testing.T) {
	f := newFixture(t)
	f.expectUpload(2)

	first := f.add(t, false)
	second := f.add(t, false)

	res, err := f.svc.SetPrimary(context.Background(), roomID, second.ID)

	require.NoError(t, err)
	assert.True(t, res.IsPrimary)
	assert.Equal(t, []string{second.ID}, f.table.primaries())
	assert.NotContains(t, f.table.primaries(), first.ID)

	_, err = f.svc.SetPrimary(context.Background(), roomID, "6e6e6e6e-0000-4000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestRoomImageService_Update(t *testing.T) {
	f := newFixture(t)
	f.expectUpload(2)

	f.add(t, false)
	second := f.add(t, false)

	order := 5
	yes, no := true, false

	res, err := f.svc.Update(context.Background(), roomID, second.ID, dto.UpdateImageRequest{Order: &order, IsPrimary: &yes})

	require.NoError(t, err)
	assert.Equal(t, 5, res.SortOrder)
	assert.True(t, res.IsPrimary)
	assert.Equal(t, []string{second.ID}, f.table.primaries())

	_, err = f.svc.Update(context.Background(), roomID, second.ID, dto.UpdateImageRequest{IsPrimary: &no})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Equal(t, []string{second.ID}, f.table.primaries())
}

func TestRoomImageService_Delete(t *testing.T) {
	tests := []struct {
		name        string
		promote     bool
		wantPrimary bool
	}{
		{name: "primary removed without promotion", promote: false, wantPrimary: false},
		{name: "primary removed with promotion", promote: true, wantPrimary: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cfg.App.Images.PromoteOnPrimaryDelete = tt.promote
			f.expectUpload(3)

			primary := f.add(t, false)
			second := f.add(t, false)
			f.add(t, false)

			key := primary.Path[len(cdn):]
			f.s3.EXPECT().Exists(gomock.Any(), key).Return(true, nil)
			f.s3.EXPECT().Delete(gomock.Any(), key).Return(nil)

			err := f.svc.Delete(context.Background(), roomID, primary.ID)

			require.NoError(t, err)
			assert.Len(t, f.table.rows, 2)

			if tt.wantPrimary {
				assert.Equal(t, []string{second.ID}, f.table.primaries())
			} else {
				assert.Empty(t, f.table.primaries())
			}
		})
	}

	t.Run("missing object tolerated", func(t *testing.T) {
		f := newFixture(t)
		f.expectUpload(1)

		image := f.add(t, false)

		f.s3.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)

		require.NoError(t, f.svc.Delete(context.Background(), roomID, image.ID))
		assert.Empty(t, f.table.rows)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)
		f.expectUpload(1)

		image := f.add(t, false)

		f.s3.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, errors.New("timeout"))

		err := f.svc.Delete(context.Background(), roomID, image.ID)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.Len(t, f.table.rows, 1)
	})

	t.Run("image of another room", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Delete(context.Background(), roomID, "1f1f1f1f-0000-4000-8000-000000000000")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
