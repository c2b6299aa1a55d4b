package productControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /api/products/export-excel (admin)
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Title", "Description", "Price", "DiscountPrice",
			"Stock", "ImageURL", "Category", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Title)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Price)
			if p.DiscountPrice != nil {
				row.AddCell().SetValue(*p.DiscountPrice)
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(p.ImageURL)
			if p.Category != nil {
				row.AddCell().SetValue(p.Category.Name)
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to write Excel file"})
			return
		}
	}
}

// POST /api/products/import-excel (admin)
//
// Columns: Title, Description, Price, DiscountPrice, Stock, ImageURL,
// CategoryName. Rows with an existing title update that product; unknown
// categories are created.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			title := get(0)
			description := get(1)
			price, errPrice := strconv.ParseFloat(get(2), 64)
			stock, _ := strconv.Atoi(get(4))
			imageURL := get(5)
			categoryName := get(6)

			if title == "" || errPrice != nil || categoryName == "" {
				skippedCount++
				continue
			}

			var discountPrice *float64
			if dp, err := strconv.ParseFloat(get(3), 64); err == nil && dp > 0 {
				discountPrice = &dp
			}

			var category models.Category
			if err := db.Where("name = ?", categoryName).
				FirstOrCreate(&category, models.Category{Name: categoryName}).Error; err != nil {
				skippedCount++
				continue
			}

			var existing models.Product
			if err := db.Where("title = ?", title).First(&existing).Error; err == nil {
				existing.Description = description
				existing.Price = price
				existing.DiscountPrice = discountPrice
				existing.Stock = stock
				existing.ImageURL = imageURL
				existing.CategoryID = category.ID
				if err := db.Save(&existing).Error; err == nil {
					updatedCount++
				} else {
					skippedCount++
				}
				continue
			}

			product := models.Product{
				Title:         title,
				Description:   description,
				Price:         price,
				DiscountPrice: discountPrice,
				Stock:         stock,
				ImageURL:      imageURL,
				CategoryID:    category.ID,
			}
			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Import completed",
			"data": gin.H{
				"created_count": createdCount,
				"updated_count": updatedCount,
				"skipped_count": skippedCount,
			},
		})
	}
}
