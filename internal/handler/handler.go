package handler

import (
	"html/template"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
	"github.com/gorilla/schema"
	"github.com/och-dev/shiftkun/internal/config"
	"github.com/och-dev/shiftkun/internal/repository"
	"github.com/och-dev/shiftkun/internal/utils"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	formDecoder *schema.Decoder
	templates   *template.Template
	mailChannel *amqp.Channel // 为 nil 时不发送通知
	redisClient *redis.Client // 为 nil 时不检查重复提交

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息里显示 label 标签中的日语字段名
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	if err := validate.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		return utils.IsValidMonth(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	ja := ja.New()
	uni := ut.New(ja, ja)
	trans, _ := uni.GetTranslator("ja")
	if err := ja_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := validate.RegisterTranslation("month", trans, func(ut ut.Translator) error {
		return ut.Add("month", "{0}の形式が不正です。例: 2026年4月", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("month", fe.Field())
		return t
	}); err != nil {
		return nil, err
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		formDecoder: decoder,
		templates:   tmpl,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.securityHeaders)
	h.Mux.Use(h.bodyLimit)

	h.Mux.Get("/", h.IndexPage)
	h.Mux.Get("/healthz", h.Healthz)

	// 希望提交
	h.Mux.Route("/input", func(r chi.Router) {
		r.Get("/", h.InputPage)
		r.Post("/", h.SubmitPreference)
		r.Post("/travel", h.SubmitTravel)
	})

	// 管理画面
	h.Mux.Route("/admin", func(r chi.Router) {
		r.Get("/", h.AdminPage)
		r.Post("/save", h.SaveSchedule)
		r.Post("/config", h.UpdateRuleSet)
		r.Get("/export.csv", h.ExportCSV)
		r.Get("/export.xlsx", h.ExportXLSX)
		r.Get("/backup.json", h.ExportBackup)
		r.Post("/restore", h.RestoreBackup)
	})
	h.Mux.Get("/backup", h.BackupPage)

	// 共享页面
	h.Mux.Get("/view", h.ViewPage)

	h.Mux.Route("/api/months/{month}", func(r chi.Router) {
		r.Use(h.month)
		r.Get("/preferences", h.GetPreferences)
		r.Post("/preferences", h.CreatePreference)
		r.Get("/prompt", h.GetPrompt)
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedules)
			r.Post("/", h.SubmitSchedule)
			r.Get("/view", h.GetSharedSchedule)
		})
	})
}

// decodeForm 解析表单并去掉所有字符串字段两端的空白，月份统一成「2026年4月」的写法
func (h *Handler) decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := h.formDecoder.Decode(dst, r.PostForm); err != nil {
		return err
	}
	trimStrings(dst)
	normalizeMonthField(dst)
	return nil
}

// normalizeMonthField 不合法的月份保持原样，交给 validator 报错
func normalizeMonthField(dst any) {
	f := reflect.ValueOf(dst).Elem().FieldByName("Month")
	if !f.IsValid() || f.Kind() != reflect.String || !f.CanSet() {
		return
	}
	if month, err := utils.NormalizeMonth(f.String()); err == nil {
		f.SetString(month)
	}
}

func trimStrings(dst any) {
	v := reflect.ValueOf(dst).Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
