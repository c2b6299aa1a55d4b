package addressControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

type AddressRequest struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	Country    string `json:"country" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	IsDefault  bool   `json:"is_default"`
}

// POST /api/address
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		address := models.Address{
			UserID:     userID,
			Line1:      req.Line1,
			Line2:      req.Line2,
			City:       req.City,
			State:      req.State,
			Country:    req.Country,
			PostalCode: req.PostalCode,
			IsDefault:  req.IsDefault,
		}
		if err := db.Create(&address).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusCreated, "Address created successfully", address)
	}
}

// GET /api/address
func GetAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&addresses).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Addresses fetched successfully", addresses)
	}
}

// findOwned returns the address only when it belongs to the user; a
// foreign address reads as not found, never as forbidden.
func findOwned(db *gorm.DB, userID, addressID string) (*models.Address, error) {
	var address models.Address
	err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("Address not found or does not belong to user")
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// PATCH /api/address/:id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		address, err := findOwned(db, userID, c.Param("id"))
		if err != nil {
			utils.Fail(c, err)
			return
		}

		var req AddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		address.Line1 = req.Line1
		address.Line2 = req.Line2
		address.City = req.City
		address.State = req.State
		address.Country = req.Country
		address.PostalCode = req.PostalCode
		address.IsDefault = req.IsDefault
		if err := db.Save(address).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Address updated successfully", address)
	}
}

// DELETE /api/address/:id
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		address, err := findOwned(db, userID, c.Param("id"))
		if err != nil {
			utils.Fail(c, err)
			return
		}

		if err := db.Delete(address).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Address deleted successfully", nil)
	}
}
