package ez

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// 没有属主 uuid 字段的模型
type orphanRecord struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// 缺属主字段的模型必须在拼 SQL 之前被拦下，详情/删除和列表行为一致
func TestCrudMissingOwnerField(t *testing.T) {
	engine := gin.New()
	uid := uuid.New()
	g := engine.Group("/", func(c *gin.Context) { c.Set("userId", uid.String()) })

	Crud[orphanRecord](CrudConfig[orphanRecord]{
		Group: g,
		Path:  "/orphans",
		New:   func() *orphanRecord { return &orphanRecord{} },
	})

	do := func(method, path string) (int, string) {
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		var out struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out.Code, out.Msg
	}

	id := uuid.New().String()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/orphans"},
		{http.MethodGet, "/orphans/" + id},
		{http.MethodDelete, "/orphans/" + id},
	} {
		code, msg := do(tc.method, tc.path)
		assert.Equal(t, 400, code, tc.method+" "+tc.path)
		assert.Equal(t, "owner field not found", msg)
	}
}
