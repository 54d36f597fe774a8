package mailer

const templates = `
{{define "layout_start"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background-color: #4F46E5; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">
<h1>{{.SiteTitle}}</h1>
</div>
<div style="background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px;">{{end}}

{{define "layout_end"}}</div>
<div style="margin-top: 30px; font-size: 12px; color: #666; text-align: center;">
<p><a href="{{.SiteURL}}">{{.SiteTitle}}</a></p>
</div>
</body>
</html>{{end}}

{{define "activation_email"}}{{template "layout_start" .}}
<h2>Hi {{.Name}},</h2>
<p>To complete the activation process, please follow this link:</p>
<p><a href="{{.SiteURL}}/activation/{{.UserID}}/{{.Code}}">{{.SiteURL}}/activation/{{.UserID}}/{{.Code}}</a></p>
<p>Or enter this activation code: <strong>{{.Code}}</strong></p>
<p>If you didn't create an account, you can safely ignore this email.</p>
{{template "layout_end" .}}{{end}}

{{define "password_reset_otp"}}{{template "layout_start" .}}
<h2>Hi {{.Name}},</h2>
<p>You requested to reset your password. Use the code below to continue:</p>
<p style="font-size: 28px; letter-spacing: 8px; font-weight: bold;">{{.OTP}}</p>
<p>This code expires in {{.ExpiresInMinutes}} minutes.</p>
<p>If you didn't request a password reset, you can safely ignore this email. Your password will remain unchanged.</p>
{{template "layout_end" .}}{{end}}
`
