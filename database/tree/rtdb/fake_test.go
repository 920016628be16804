package rtdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/safing/treebase/config"
	"github.com/safing/treebase/database/tree"
)

// fakeDatabase serves the REST endpoints of a hosted database from memory.
type fakeDatabase struct {
	lock    sync.Mutex
	root    interface{}
	methods []string
}

func (f *fakeDatabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, ".json") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	segments := tree.SplitPath(strings.TrimSuffix(r.URL.Path, ".json"))

	f.lock.Lock()
	defer f.lock.Unlock()
	f.methods = append(f.methods, r.Method)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, arrayify(tree.Lookup(f.root, segments)))
	case http.MethodPut:
		var value interface{}
		if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.root = tree.Assign(f.root, segments, value)
		if r.URL.Query().Get("print") == "silent" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, value)
	case http.MethodPost:
		var value interface{}
		if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		key := tree.NewPushID()
		f.root = tree.Assign(f.root, append(segments, key), value)
		writeJSON(w, map[string]string{"name": key})
	case http.MethodDelete:
		f.root = tree.Erase(f.root, segments)
		writeJSON(w, nil)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (f *fakeDatabase) Methods() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.methods...)
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}

// arrayify returns objects whose keys are mostly small integers as arrays,
// like the hosted service does.
func arrayify(value interface{}) interface{} {
	m, ok := value.(map[string]interface{})
	if !ok {
		return value
	}

	maxIndex := -1
	for key := range m {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || strconv.Itoa(i) != key {
			maxIndex = -1
			break
		}
		if i > maxIndex {
			maxIndex = i
		}
	}

	if maxIndex >= 0 && len(m)*2 > maxIndex+1 {
		a := make([]interface{}, maxIndex+1)
		for key, child := range m {
			i, _ := strconv.Atoi(key)
			a[i] = arrayify(child)
		}
		return a
	}

	c := make(map[string]interface{}, len(m))
	for key, child := range m {
		c[key] = arrayify(child)
	}
	return c
}

// testSettings points the client to the database emulator if one is
// configured, and to a fake database otherwise. The returned fake is nil when
// the emulator is used.
func testSettings(t *testing.T) (*config.Settings, *fakeDatabase) {
	t.Helper()

	var fake *fakeDatabase
	if os.Getenv(EmulatorHostEnv) == "" {
		fake = &fakeDatabase{}
		srv := httptest.NewServer(fake)
		t.Cleanup(srv.Close)
		t.Setenv(EmulatorHostEnv, strings.TrimPrefix(srv.URL, "http://"))
	}

	return &config.Settings{
		DatabaseURL: "https://treebase-test.firebaseio.com",
		ServiceAccount: config.ServiceAccount{
			ProjectID: "treebase-test",
		},
	}, fake
}
