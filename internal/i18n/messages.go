// Package i18n translates user-facing messages keyed by dotted paths.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	ExportSuccess    = "systemLogs.export.success"
	ExportFailed     = "systemLogs.export.failed"
	LoadMoreSuccess  = "systemLogs.loadMore.success"
	LoadMoreBusy     = "systemLogs.loadMore.inProgress"
	ListSuccess      = "systemLogs.list.success"
	DetailSuccess    = "systemLogs.detail.success"
	NotFound         = "systemLogs.notFound"
	ViewCreated      = "systemLogs.view.created"
	ViewUpdated      = "systemLogs.view.updated"
	ViewClosed       = "systemLogs.view.closed"
	InvalidParameter = "common.invalidParameter"
	InternalError    = "common.internalError"
	Unauthorized     = "common.unauthorized"
	Forbidden        = "common.forbidden"
	TooManyRequests  = "common.tooManyRequests"
	RouteNotFound    = "common.routeNotFound"
)

var supported = []language.Tag{
	language.English,
	language.Arabic,
}

var translations = map[language.Tag]map[string]string{
	language.English: {
		ExportSuccess:    "Exported %d logs",
		ExportFailed:     "Failed to export logs",
		LoadMoreSuccess:  "Loaded %d more logs",
		LoadMoreBusy:     "Logs are already loading",
		ListSuccess:      "Logs retrieved successfully",
		DetailSuccess:    "Log retrieved successfully",
		NotFound:         "Log not found",
		ViewCreated:      "View created",
		ViewUpdated:      "View updated",
		ViewClosed:       "View closed",
		InvalidParameter: "Invalid parameter",
		InternalError:    "Internal server error",
		Unauthorized:     "Authentication required",
		Forbidden:        "Admin access required",
		TooManyRequests:  "Too many requests. Please try again later.",
		RouteNotFound:    "Route not found",
	},
	language.Arabic: {
		ExportSuccess:    "تم تصدير %d سجل",
		ExportFailed:     "فشل تصدير السجلات",
		LoadMoreSuccess:  "تم تحميل %d سجل إضافي",
		LoadMoreBusy:     "جاري تحميل السجلات بالفعل",
		ListSuccess:      "تم جلب السجلات بنجاح",
		DetailSuccess:    "تم جلب السجل بنجاح",
		NotFound:         "السجل غير موجود",
		ViewCreated:      "تم إنشاء العرض",
		ViewUpdated:      "تم تحديث العرض",
		ViewClosed:       "تم إغلاق العرض",
		InvalidParameter: "معامل غير صالح",
		InternalError:    "خطأ داخلي في الخادم",
		Unauthorized:     "غير مصرح",
		Forbidden:        "يتطلب صلاحيات المسؤول",
		TooManyRequests:  "طلبات كثيرة جدا، يرجى المحاولة لاحقا",
		RouteNotFound:    "المسار غير موجود",
	},
}

// Translator resolves message keys for a requested language
type Translator struct {
	catalog  catalog.Catalog
	matcher  language.Matcher
	fallback language.Tag
}

// NewTranslator builds the message catalog. fallback is used when a request
// carries no usable Accept-Language header.
func NewTranslator(fallback string) (*Translator, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, err
			}
		}
	}

	t := &Translator{
		catalog:  b,
		matcher:  language.NewMatcher(supported),
		fallback: language.English,
	}
	if fallback != "" {
		t.fallback = t.Match(fallback)
	}
	return t, nil
}

// Match picks the supported language closest to an Accept-Language value
func (t *Translator) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.fallback
	}
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.fallback
	}
	return supported[idx]
}

// Printer returns a printer for acceptLanguage
func (t *Translator) Printer(acceptLanguage string) *message.Printer {
	return message.NewPrinter(t.Match(acceptLanguage), message.Catalog(t.catalog))
}

// T translates key for acceptLanguage. Numeric args are formatted with
// the locale's digit grouping.
func (t *Translator) T(acceptLanguage, key string, args ...interface{}) string {
	return t.Printer(acceptLanguage).Sprintf(key, args...)
}

// Languages lists the supported language tags
func Languages() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		out[i] = tag.String()
	}
	return out
}
