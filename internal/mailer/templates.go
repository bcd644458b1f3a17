package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{
			"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		}).
		ParseFS(templateFS, "templates/*.gohtml"),
)

const OTPSubject = "Your OTP for Student Registration"

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}
	return buf.String(), nil
}

// OTPMessage builds the registration OTP email.
func OTPMessage(to, code string) (*Message, error) {
	body, err := render("otp.gohtml", struct{ Code string }{code})
	if err != nil {
		return nil, err
	}
	return &Message{
		To:       []mail.Address{{Address: to}},
		Subject:  OTPSubject,
		HTMLBody: body,
	}, nil
}

func ReceiptSubject(studentName string) string {
	return fmt.Sprintf("Student Receipt - %s - TechZone Academy", studentName)
}

// ReceiptMessage builds the enrolment receipt with login credentials.
func ReceiptMessage(receipt *models.StudentReceipt, portalURL string) (*Message, error) {
	data := struct {
		Student    models.Student
		DueFees    float64
		EnrolledAt string
		PortalURL  string
	}{
		Student:    receipt.Student,
		DueFees:    receipt.DueFees,
		EnrolledAt: receipt.CreatedAtDisplay,
		PortalURL:  portalURL,
	}

	body, err := render("receipt.gohtml", data)
	if err != nil {
		return nil, err
	}
	return &Message{
		To:       []mail.Address{{Name: receipt.StudentName, Address: receipt.Email}},
		Subject:  ReceiptSubject(receipt.StudentName),
		HTMLBody: body,
	}, nil
}
