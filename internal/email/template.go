package email

import (
	"fmt"
	"html"
)

// otpEmailHTML arma el cuerpo HTML del correo de verificación.
// Plantilla "Safe Harbor" con el código de 4 dígitos y su vigencia.
func otpEmailHTML(name, toEmail, code string) string {
	name = html.EscapeString(name)
	if name == "" {
		name = "there"
	}
	toEmail = html.EscapeString(toEmail)
	code = html.EscapeString(code)

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Safe Harbor - Verification Code</title>
</head>
<body style="margin:0;padding:0;background-color:#f4f9f9;font-family:Arial,sans-serif;color:#2c3e50;">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:12px;overflow:hidden;">
    <div style="background:linear-gradient(135deg,#4CAF9E,#6BCFC7);padding:30px 20px;text-align:center;">
      <div style="font-size:26px;font-weight:bold;color:#ffffff;letter-spacing:1px;">Safe Harbor</div>
      <div style="font-size:14px;color:#eafffb;margin-top:6px;">Your Safe Space for Mental Well-Being</div>
    </div>
    <div style="padding:30px 25px;">
      <h1 style="font-size:22px;margin-bottom:10px;text-align:center;">Verification Code</h1>
      <p style="font-size:15px;line-height:1.6;color:#555;">Hello %s,</p>
      <p style="font-size:15px;line-height:1.6;color:#555;">
        Thank you for choosing <strong>Safe Harbor</strong>.
        Use the 4-digit verification code below to continue:
      </p>
      <div style="text-align:center;margin:30px 0 20px;">
        <div style="display:inline-block;font-size:36px;letter-spacing:12px;font-weight:bold;color:#2c3e50;background:#f0fbfa;padding:16px 28px;border-radius:10px;border:2px dashed #6BCFC7;">%s</div>
      </div>
      <div style="text-align:center;font-size:14px;color:#e74c3c;margin-top:10px;">
        This code will expire in <strong>5 minutes</strong>.
      </div>
      <div style="background:#f7fffd;border-left:4px solid #4CAF9E;padding:14px 16px;border-radius:8px;font-size:14px;margin:25px 0 10px;color:#34495e;">
        <strong>Security Tip:</strong> Please do not share this code with anyone.
        If you did not request this, you can safely ignore this email.
      </div>
    </div>
    <div style="padding:20px;font-size:12px;text-align:center;color:#7f8c8d;background:#f9fdfd;">
      <p>This email was sent to %s</p>
      <p>Need help? Contact us at <strong>support@safeharbor.com</strong></p>
    </div>
  </div>
</body>
</html>`, name, code, toEmail)
}
