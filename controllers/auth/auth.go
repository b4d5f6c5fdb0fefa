package authController

import (
	"finvoice/cache"
	"finvoice/config"
	"finvoice/database"
	"finvoice/ledger"
	"finvoice/middleware"
	"finvoice/models"
	"finvoice/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// clientIP prefers the X-Forwarded-For header set by the reverse proxy.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return c.IP()
}

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		Name              string `json:"name"`
		Email             string `json:"email"`
		Phone             string `json:"phone"`
		Password          string `json:"password"`
		Pin               string `json:"pin"`
		PreferredLanguage string `json:"preferredLanguage"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Check if phone already exists
	if err := db.Where("phone = ?", reqData.Phone).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Phone number is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	// Hash transaction PIN
	hashedPin, err := bcrypt.GenerateFromPassword([]byte(reqData.Pin), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing PIN: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	preferredLanguage := reqData.PreferredLanguage
	if preferredLanguage == "" {
		preferredLanguage = "en-IN"
	}

	newUser := models.User{
		Name:              reqData.Name,
		Email:             reqData.Email,
		Phone:             reqData.Phone,
		Password:          string(hashedPassword),
		PinHash:           string(hashedPin),
		PreferredLanguage: preferredLanguage,
		IsActive:          true,
	}

	var newAccount models.Account

	// User and primary account are created together
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}

		newAccount = models.Account{
			UserID:        newUser.ID,
			AccountNumber: utils.GenerateAccountNumber(),
			AccountType:   "SAVINGS",
			Balance:       0,
			Currency:      "INR",
			IsPrimary:     true,
			IsActive:      true,
		}
		return tx.Create(&newAccount).Error
	})
	if err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	// Clean Response
	newUser.Password = ""
	newUser.PinHash = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"user":    newUser,
		"account": newAccount,
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	var result *gorm.DB

	// Retrieve user by email or phone
	if reqData.Email != "" {
		result = db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user)
	} else {
		result = db.Where("phone = ? AND is_deleted = ?", reqData.Phone, false).First(&user)
	}

	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	ip := clientIP(c)
	userAgent := c.Get("User-Agent")

	// Check if the user is blocked
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && time.Since(*user.LastFailedLogin) > 15*time.Minute {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
		db.Save(&user)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {

		user.FailedLoginAttempts++
		now := time.Now()
		user.LastFailedLogin = &now

		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= 3 {
			user.IsBlocked = true

			unblockTime := now.Add(15 * time.Minute)
			user.BlockedUntil = &unblockTime
		}

		if err := db.Save(&user).Error; err != nil {
			log.Printf("Error saving failed login attempt: %v", err)
		}

		if err := ledger.RecordSecurityEvent(db, user.ID, models.EventLoginFailed, ip, userAgent,
			"Wrong password"); err != nil {
			log.Printf("Error recording security event: %v", err)
		}

		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong Password", nil)
	}

	// Update last login time
	user.LastLogin = time.Now()
	user.FailedLoginAttempts = 0
	user.IsBlocked = false
	user.BlockedUntil = nil
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	// Generate tokens
	accessToken, err := middleware.GenerateJWT(user.ID, user.Name, user.Email, user.Phone)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}
	refreshToken, err := middleware.GenerateRefreshJWT(user.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	// Single-session policy deactivates every other session on login
	if config.AppConfig.SingleSession {
		if err := db.Model(&models.Session{}).
			Where("user_id = ? AND is_active = true", user.ID).
			Update("is_active", false).Error; err != nil {
			log.Printf("Error deactivating previous sessions: %v", err)
		}
	}

	session := models.Session{
		Token:      refreshToken,
		UserID:     user.ID,
		DeviceInfo: userAgent,
		IPAddress:  ip,
		ExpiresAt:  time.Now().Add(time.Duration(config.AppConfig.RefreshTokenDays) * 24 * time.Hour),
		IsActive:   true,
	}
	if err := db.Create(&session).Error; err != nil {
		log.Printf("Error saving session: %v", err)
	}

	if err := ledger.RecordSecurityEvent(db, user.ID, models.EventLoginSuccess, ip, userAgent,
		"Login successful"); err != nil {
		log.Printf("Error recording security event: %v", err)
	}

	// Sanitize user data
	user.Password = ""
	user.PinHash = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func RefreshToken(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRefresh").(*struct {
		RefreshToken string `json:"refreshToken"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if cache.IsTokenBlacklisted(c.Context(), reqData.RefreshToken) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Token has been revoked. Please login again.", nil)
	}

	claims, err := middleware.ParseToken(reqData.RefreshToken, "refresh")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired refresh token!", nil)
	}
	userId := uint(claims["userId"].(float64))

	// The session backing this refresh token must still be live
	var session models.Session
	if err := db.Where("token = ? AND user_id = ? AND is_active = true AND is_deleted = false",
		reqData.RefreshToken, userId).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Session not found or logged out!", nil)
	}
	if session.ExpiresAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Session expired. Please login again.", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_active = true AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	accessToken, err := middleware.GenerateJWT(user.ID, user.Name, user.Email, user.Phone)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed.", fiber.Map{
		"accessToken": accessToken,
	})
}

func Logout(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	// Revoke the presented access token for its remaining lifetime
	if token, ok := c.Locals("token").(string); ok {
		cache.BlacklistToken(c.Context(), token, time.Duration(config.AppConfig.AccessTokenMinutes)*time.Minute)
	}

	reqData := new(struct {
		RefreshToken string `json:"refreshToken"`
	})

	// Missing body logs out all sessions of the user
	query := db.Model(&models.Session{}).Where("user_id = ? AND is_active = true", userId)
	if err := c.BodyParser(reqData); err == nil && reqData.RefreshToken != "" {
		query = query.Where("token = ?", reqData.RefreshToken)
		cache.BlacklistToken(c.Context(), reqData.RefreshToken, time.Duration(config.AppConfig.RefreshTokenDays)*24*time.Hour)
	}
	if err := query.Update("is_active", false).Error; err != nil {
		log.Printf("Error deactivating session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to logout!", nil)
	}

	if err := ledger.RecordSecurityEvent(db, userId, models.EventLogout, clientIP(c), c.Get("User-Agent"),
		"Logout"); err != nil {
		log.Printf("Error recording security event: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
}

func Profile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var account models.Account
	if err := db.Where("user_id = ? AND is_primary = true AND is_deleted = false", userId).First(&account).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Account not found!", nil)
	}

	user.Password = ""
	user.PinHash = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User profile.", fiber.Map{
		"user":    user,
		"account": account,
	})
}

func SecurityEventList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var events []models.SecurityEvent
	var total int64

	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch security events!", nil)
	}

	db.Model(&models.SecurityEvent{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&total)

	response := map[string]interface{}{
		"events": events,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Security Event List.", response)
}

func DeleteAccount(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedDelete").(*struct {
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong Password", nil)
	}

	// Erasure removes the audit trail with everything else; keep an
	// application-log record of the deletion.
	if err := ledger.RecordSecurityEvent(db, userId, models.EventAccountDeleted, clientIP(c), c.Get("User-Agent"),
		"Account deletion requested"); err != nil {
		log.Printf("Error recording security event: %v", err)
	}
	log.Printf("Deleting user %d (%s) and all dependent records", user.ID, user.Email)

	if err := ledger.DeleteUser(db, userId); err != nil {
		log.Printf("Error deleting user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account!", nil)
	}

	if token, ok := c.Locals("token").(string); ok {
		cache.BlacklistToken(c.Context(), token, time.Duration(config.AppConfig.AccessTokenMinutes)*time.Minute)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully.", nil)
}
