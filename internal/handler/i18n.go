package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Accept-Languageにarが含まれていればアラビア語
func wantsArabic(c echo.Context) bool {
	return strings.Contains(strings.ToLower(c.Request().Header.Get("Accept-Language")), "ar")
}

// 状態ごとの共通メッセージ
var arabicByStatus = map[int]string{
	http.StatusBadRequest:            "طلب غير صالح",
	http.StatusUnauthorized:          "غير مصرح لك بالوصول",
	http.StatusForbidden:             "ممنوع الوصول",
	http.StatusNotFound:              "المورد غير موجود",
	http.StatusConflict:              "تضارب في البيانات",
	http.StatusRequestEntityTooLarge: "حجم الطلب كبير جداً",
	http.StatusUnprocessableEntity:   "خطأ في التحقق من البيانات",
	http.StatusTooManyRequests:       "طلبات كثيرة جداً، يرجى المحاولة لاحقاً",
	http.StatusInternalServerError:   "حدث خطأ في الخادم",
}

// 個別の内容を持たないエラーだけ訳す
func genericStatus(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	default:
		return status >= http.StatusInternalServerError
	}
}

// 成功メッセージ
var arabicMessages = map[string]string{
	"user registered successfully":     "تم إنشاء المستخدم بنجاح",
	"logged in successfully":           "تم تسجيل الدخول بنجاح",
	"token refreshed successfully":     "تم إنشاء رمز التحديث بنجاح",
	"logged out successfully":          "تم تسجيل الخروج بنجاح",
	"profile loaded successfully":      "تم تحميل بيانات الملف الشخصي بنجاح",
	"profile updated successfully":     "تم تحديث بيانات المستخدم بنجاح",
	"user role updated successfully":   "تم تحديث صلاحيات المستخدم بنجاح",
	"user logged out from all devices": "تم تسجيل خروج المستخدم من جميع الأجهزة",
	"operation successful":             "تمت العملية بنجاح",
	"resource created successfully":    "تم إنشاء المورد بنجاح",
	"resource updated successfully":    "تم تحديث المورد بنجاح",
	"resource deleted successfully":    "تم حذف المورد بنجاح",
	"cart updated successfully":        "تم تحديث السلة بنجاح",
	"order placed successfully":        "تم إنشاء الطلب بنجاح",
	"order cancelled successfully":     "تم إلغاء الطلب بنجاح",
	"order status updated":             "تم تحديث حالة الطلب",
	"payment status updated":           "تم تحديث حالة الدفع",
}

func localize(c echo.Context, message string) string {
	if !wantsArabic(c) {
		return message
	}
	if ar, ok := arabicMessages[message]; ok {
		return ar
	}
	return message
}
