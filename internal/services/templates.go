package services

import "html/template"

var summaryTemplate = template.Must(template.New("summary").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #4CAF50;">Your journal summary for {{.PrettyDate}}</h2>
  <p>Hi {{.Username}},</p>
  <p>Here is a look back at the {{.EntriesCount}} {{if eq .EntriesCount 1}}entry{{else}}entries{{end}} you wrote yesterday.</p>
  <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0; line-height: 1.6;">
    {{range .Paragraphs}}<p>{{.}}</p>{{end}}
  </div>
  <p style="color: #888; font-size: 12px;">Generated {{.GeneratedAt}}. Keep writing!</p>
</div>`))

var noEntriesTemplate = template.Must(template.New("no-entries").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #FF9800;">We missed you on {{.PrettyDate}}</h2>
  <p>Hi {{.Username}},</p>
  <p>You didn't write any journal entries yesterday. That's okay, every day is a fresh page.</p>
  <p>Even a single sentence about how you feel today is worth capturing. Your future self will thank you.</p>
</div>`))

var credentialsTemplate = template.Must(template.New("credentials").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #4CAF50;">Welcome to your Journal</h2>
  <p>Hi {{.Username}},</p>
  <p>Here are your login details:</p>
  <div style="background-color: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <strong>Username:</strong> {{.Username}}<br>
    <strong>Passcode:</strong> {{.Passcode}}
  </div>
  <p>Please keep this email somewhere safe.</p>
</div>`))

var testTemplate = template.Must(template.New("test").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #4CAF50;">Email configuration test successful</h2>
  <p>If you're reading this, the mail relay credentials are working.</p>
  <div style="background-color: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <strong>Sender:</strong> {{.Sender}}<br>
    <strong>Timestamp:</strong> {{.Timestamp}}
  </div>
</div>`))
