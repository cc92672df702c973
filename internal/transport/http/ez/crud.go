package ez

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	resp "energy-trading-api/internal/transport/http/response"
	"energy-trading-api/pkg/utils"
)

// CrudHooks 模型无需实现任何接口，按需挂钩子
type CrudHooks[T any] struct {
	BeforeCreate func(c *gin.Context, m *T) error
	ScopeList    func(c *gin.Context, q *gorm.DB) *gorm.DB // 自定义筛选/排序
}

type CrudConfig[T any] struct {
	DB    *gorm.DB
	Group *gin.RouterGroup // 已鉴权分组（能拿 userId）
	Path  string
	New   func() *T

	Hooks CrudHooks[T]

	AllowCreate bool
	AllowList   bool
	AllowGet    bool
	AllowDelete bool

	IDField    string // 默认 "ID"
	OwnerField string // 默认依次找 OwnerID / SellerID / UserID

	OrderBy string // 列表排序，空则 created_at DESC
}

func (c *CrudConfig[T]) idCandidates() []string {
	if c.IDField != "" {
		return []string{c.IDField, "ID"}
	}
	return []string{"ID"}
}

func (c *CrudConfig[T]) ownerCandidates() []string {
	if c.OwnerField != "" {
		return []string{c.OwnerField, "OwnerID", "SellerID", "UserID"}
	}
	return []string{"OwnerID", "SellerID", "UserID"}
}

var uuidType = reflect.TypeOf(uuid.UUID{})

// uuidField 按候选名找 uuid.UUID 字段，返回可读写指针和字段名
func uuidField(obj any, candidates []string) (*uuid.UUID, string, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr {
		return nil, "", false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil, "", false
	}
	t := v.Type()
	for _, cand := range candidates {
		f, ok := t.FieldByName(cand)
		if !ok || f.PkgPath != "" || f.Type != uuidType {
			continue
		}
		fv := v.FieldByIndex(f.Index)
		if !fv.CanSet() {
			continue
		}
		return fv.Addr().Interface().(*uuid.UUID), f.Name, true
	}
	return nil, "", false
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func toSnake(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	prevUpper := false
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && !prevUpper {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevUpper = true
		} else {
			b.WriteRune(r)
			prevUpper = false
		}
	}
	return b.String()
}

// Crud 挂载属主受限的记录型 CRUD：创建自动生成 uuid 主键并写入属主，
// 列表/详情/删除一律按属主过滤
func Crud[T any](cfg CrudConfig[T]) {
	if !cfg.AllowCreate && !cfg.AllowGet && !cfg.AllowList && !cfg.AllowDelete {
		cfg.AllowCreate, cfg.AllowList, cfg.AllowGet, cfg.AllowDelete = true, true, true, true
	}

	idNames := cfg.idCandidates()
	ownerNames := cfg.ownerCandidates()

	ownerCol := func(m *T) (string, bool) {
		_, name, ok := uuidField(m, ownerNames)
		if !ok {
			return "", false
		}
		return toSnake(name), true
	}

	authUID := func(c *gin.Context) (uuid.UUID, bool) {
		uid, err := uuid.Parse(c.GetString("userId"))
		if err != nil {
			return uuid.Nil, false
		}
		return uid, true
	}

	if cfg.AllowCreate {
		cfg.Group.POST(cfg.Path, func(c *gin.Context) {
			m := cfg.New()
			if err := c.ShouldBindJSON(m); err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			uid, ok := authUID(c)
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if idp, _, ok := uuidField(m, idNames); ok {
				if *idp == uuid.Nil {
					*idp = utils.NewID()
				}
			} else {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "id field not found"))
				return
			}
			if op, _, ok := uuidField(m, ownerNames); ok {
				*op = uid
			} else {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "owner field not found"))
				return
			}
			if cfg.Hooks.BeforeCreate != nil {
				if err := cfg.Hooks.BeforeCreate(c, m); err != nil {
					c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
					return
				}
			}
			if err := cfg.DB.WithContext(c).Create(m).Error; err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, resp.OK(m))
		})
	}

	if cfg.AllowList {
		cfg.Group.GET(cfg.Path, func(c *gin.Context) {
			uid, ok := authUID(c)
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			col, ok := ownerCol(cfg.New())
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "owner field not found"))
				return
			}
			offset := atoiDefault(c.Query("offset"), 0)
			limit := atoiDefault(c.Query("limit"), 20)
			if limit > 100 {
				limit = 100
			}
			q := cfg.DB.WithContext(c).Model(cfg.New()).Where(col+" = ?", uid)
			if cfg.Hooks.ScopeList != nil {
				q = cfg.Hooks.ScopeList(c, q)
			}
			order := cfg.OrderBy
			if order == "" {
				order = "created_at DESC"
			}
			var items []T
			if err := q.Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
				return
			}
			c.JSON(http.StatusOK, resp.OK(items))
		})
	}

	if cfg.AllowGet {
		cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
			uid, ok := authUID(c)
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "invalid id"))
				return
			}
			col, ok := ownerCol(cfg.New())
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "owner field not found"))
				return
			}
			m := cfg.New()
			e := cfg.DB.WithContext(c).Where("id = ? AND "+col+" = ?", id, uid).First(m).Error
			if errors.Is(e, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
				return
			}
			if e != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, e.Error()))
				return
			}
			c.JSON(http.StatusOK, resp.OK(m))
		})
	}

	if cfg.AllowDelete {
		cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
			uid, ok := authUID(c)
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "invalid id"))
				return
			}
			col, ok := ownerCol(cfg.New())
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "owner field not found"))
				return
			}
			res := cfg.DB.WithContext(c).Where("id = ? AND "+col+" = ?", id, uid).Delete(cfg.New())
			if res.Error != nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, res.Error.Error()))
				return
			}
			if res.RowsAffected == 0 {
				c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
				return
			}
			c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
		})
	}
}
