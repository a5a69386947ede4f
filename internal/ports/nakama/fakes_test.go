package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode    int64
	data      []byte
	presences []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages []sentMessage
	labels   []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...), presences: presences})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) opCodes() []int64 {
	out := make([]int64, len(md.messages))
	for i, m := range md.messages {
		out[i] = m.opCode
	}
	return out
}

func (md *mockDispatcher) last(opCode int64) (sentMessage, bool) {
	for i := len(md.messages) - 1; i >= 0; i-- {
		if md.messages[i].opCode == opCode {
			return md.messages[i], true
		}
	}
	return sentMessage{}, false
}

// testPresence overrides the presence accessors the handler reads.
type testPresence struct {
	runtime.Presence
	userID string
}

func (p testPresence) GetUserId() string   { return p.userID }
func (p testPresence) GetSessionId() string { return "session-" + p.userID }
func (p testPresence) GetUsername() string  { return p.userID }

// testMatchData is a client message received by the match loop.
type testMatchData struct {
	runtime.MatchData
	userID string
	opCode int64
	data   []byte
}

func (m testMatchData) GetUserId() string { return m.userID }
func (m testMatchData) GetOpCode() int64  { return m.opCode }
func (m testMatchData) GetData() []byte   { return m.data }

type storedObject struct {
	value   string
	version int
}

// fakeNakama keeps storage objects in memory and records the calls the module makes.
type fakeNakama struct {
	runtime.NakamaModule
	objects       map[string]storedObject
	writeErr      error
	matchParams   map[string]interface{}
	profileUpdate []string
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{objects: make(map[string]storedObject)}
}

func objectKey(collection, userID, key string) string {
	return collection + "/" + userID + "/" + key
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var out []*api.StorageObject
	for _, r := range reads {
		obj, ok := f.objects[objectKey(r.Collection, r.UserID, r.Key)]
		if !ok {
			continue
		}
		out = append(out, &api.StorageObject{
			Collection: r.Collection,
			Key:        r.Key,
			UserId:     r.UserID,
			Value:      obj.value,
			Version:    fmt.Sprint(obj.version),
		})
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		k := objectKey(w.Collection, w.UserID, w.Key)
		prev, exists := f.objects[k]
		if w.Version == "*" && exists {
			return nil, runtime.ErrStorageRejectedVersion
		}
		f.objects[k] = storedObject{value: w.Value, version: prev.version + 1}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID})
	}
	return acks, nil
}

func (f *fakeNakama) StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error {
	for _, d := range deletes {
		delete(f.objects, objectKey(d.Collection, d.UserID, d.Key))
	}
	return nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.matchParams = params
	return "match-" + module, nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	f.profileUpdate = append(f.profileUpdate, userID+":"+displayName)
	return nil
}

func userContext(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}
