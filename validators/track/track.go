package trackValidator

import (
	"regexp"
	"strings"

	"rollcall/middleware"

	"github.com/gofiber/fiber/v2"
)

// Helper to validate phone number format
func isValidPhone(phone string) bool {
	re := regexp.MustCompile(`^\+?\d{7,15}$`)
	return re.MatchString(phone)
}

// Attendance validator middleware
func Attendance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			MemberPhone     string   `json:"member_phone"`
			MemberName      string   `json:"member_name"`
			DeviceLatitude  *float64 `json:"device_latitude"`
			DeviceLongitude *float64 `json:"device_longitude"`
			GPSAccuracy     *float64 `json:"gps_accuracy"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Phone
		if reqData.MemberPhone == "" || !isValidPhone(reqData.MemberPhone) {
			errors["member_phone"] = "Invalid phone number!"
		}

		// Validate Name
		if len(strings.TrimSpace(reqData.MemberName)) < 2 {
			errors["member_name"] = "Name must be at least 2 characters long!"
		}

		// Device coordinates come as a pair or not at all
		if (reqData.DeviceLatitude == nil) != (reqData.DeviceLongitude == nil) {
			errors["device_coordinates"] = "Provide both device_latitude and device_longitude, or neither!"
		}
		if reqData.DeviceLatitude != nil && (*reqData.DeviceLatitude < -90 || *reqData.DeviceLatitude > 90) {
			errors["device_latitude"] = "Latitude must be between -90 and 90!"
		}
		if reqData.DeviceLongitude != nil && (*reqData.DeviceLongitude < -180 || *reqData.DeviceLongitude > 180) {
			errors["device_longitude"] = "Longitude must be between -180 and 180!"
		}
		if reqData.GPSAccuracy != nil && *reqData.GPSAccuracy < 0 {
			errors["gps_accuracy"] = "GPS accuracy cannot be negative!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint `json:"user_id"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "A valid user id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
