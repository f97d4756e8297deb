package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lmtuitions/sessionmanagerapi/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// fakeUserStore is an in-memory UserStore
type fakeUserStore struct {
	mu        sync.Mutex
	users     map[string]models.UserModel
	nextID    uint
	getErr    error
	createErr error
}

func newFakeUserStore(usernames ...string) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]models.UserModel)}
	for _, username := range usernames {
		f.nextID++
		f.users[username] = models.UserModel{ID: f.nextID, Username: username, CreatedAt: time.Now()}
	}
	return f
}

func (f *fakeUserStore) GetByUsername(username string) (*models.UserModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) Create(user *models.UserModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.Username]; ok {
		return fmt.Errorf("duplicate key value violates unique constraint")
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.Username] = *user
	return nil
}

// fakeSessionStore is an in-memory SessionStore with a controllable clock
type fakeSessionStore struct {
	mu           sync.Mutex
	records      []models.SessionCookieModel
	seq          int
	now          func() time.Time
	createErr    error
	queryErr     error
	resolveCalls int
	deleteCalls  int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{now: time.Now}
}

// add inserts a record directly, bypassing Create, so tests can pin timestamps
func (f *fakeSessionStore) add(record models.SessionCookieModel) models.SessionCookieModel {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == "" {
		f.seq++
		record.ID = fmt.Sprintf("%08d", f.seq)
	}
	f.records = append(f.records, record)
	return record
}

func (f *fakeSessionStore) Create(cookieData json.RawMessage, uploadedBy, fileName string) (*models.SessionCookieModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	record := models.SessionCookieModel{
		ID:         fmt.Sprintf("%08d", f.seq),
		CookieData: datatypes.JSON(cookieData),
		FileName:   fileName,
		UploadedBy: uploadedBy,
		UploadedAt: f.now(),
		IsActive:   true,
	}
	f.records = append(f.records, record)
	return &record, nil
}

func (f *fakeSessionStore) GetByID(id string) (*models.SessionCookieModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.ID == id {
			found := record
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionStore) GetActiveLatest() (*models.SessionCookieModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var latest *models.SessionCookieModel
	for i := range f.records {
		record := f.records[i]
		if !record.IsActive {
			continue
		}
		if latest == nil ||
			record.UploadedAt.After(latest.UploadedAt) ||
			(record.UploadedAt.Equal(latest.UploadedAt) && record.ID > latest.ID) {
			found := record
			latest = &found
		}
	}
	return latest, nil
}

func (f *fakeSessionStore) DeleteByID(id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	kept := f.records[:0]
	var removed int64
	for _, record := range f.records {
		if record.ID == id {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	f.records = kept
	return removed, nil
}

func (f *fakeSessionStore) DeleteExpired(olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	var removed int64
	for _, record := range f.records {
		if record.UploadedAt.Before(olderThan) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	f.records = kept
	return removed, nil
}

func (f *fakeSessionStore) recordCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeSessionStore) resolveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolveCalls
}

func (f *fakeSessionStore) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteCalls
}
