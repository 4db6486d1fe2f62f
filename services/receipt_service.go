package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/zanloc/rental-backend/configs"
	"github.com/zanloc/rental-backend/models"
	"gorm.io/gorm"
)

// GenerateReceipt renders a PDF receipt for an approved payment, uploads it
// and stores the URL on the payment. Runs off the request path; a failure only
// logs, the payment itself is already final.
func GenerateReceipt(db *gorm.DB, paymentID uuid.UUID) {
	var payment models.Payment
	if err := db.Preload("User").Preload("Booking").First(&payment, "id = ?", paymentID).Error; err != nil {
		log.Printf("🔥 Receipt: payment %s not found: %v", paymentID, err)
		return
	}
	if payment.Status != models.PaymentCompleted {
		return
	}

	htmlData, err := generateReceiptHTML(&payment)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadReceipt(pdfBytes, payment.TransactionID)
	if err != nil {
		log.Printf("🔥 Failed to upload receipt: %v", err)
		return
	}

	if err := db.Model(&payment).Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to store receipt URL for %s: %v", payment.TransactionID, err)
		return
	}
	log.Printf("✅ Receipt generated for payment %s.", payment.TransactionID)
}

func generateReceiptHTML(payment *models.Payment) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		ClientName    string
		BookingNumber string
		TransactionID string
		Amount        string
		Currency      string
		Method        string
		PaidAt        string
	}{
		ClientName:    payment.User.FullName,
		BookingNumber: payment.Booking.BookingNumber,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount.StringFixed(0),
		Currency:      payment.Currency,
		Method:        payment.PaymentMethod,
		PaidAt:        time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceipt(fileBytes []byte, transactionID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s", transactionID),
		Folder:       "zanloc_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
