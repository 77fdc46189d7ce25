package main

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const passwordResetSubject = "Reset your password"

const passwordResetHTML = `<p>Hello {{name}},</p>
<p>Someone has requested a link to change your password. You can do this through the link below.</p>
<p><a href="{{passwordResetUrl}}">Change my password</a></p>
<p>The link is valid until {{expiresAt}}.</p>
<p>If you didn't request this, please ignore this email. Your password won't change until you access the link above and create a new one.</p>`

const passwordResetText = `Hello {{name}},

Someone has requested a link to change your password. You can do this through the link below.

{{passwordResetUrl}}

The link is valid until {{expiresAt}}.

If you didn't request this, please ignore this email. Your password won't change until you access the link above and create a new one.`

func passwordResetTemplate(name string) *types.Template {
	return &types.Template{
		TemplateName: aws.String(name),
		SubjectPart:  aws.String(passwordResetSubject),
		HtmlPart:     aws.String(passwordResetHTML),
		TextPart:     aws.String(passwordResetText),
	}
}
