package email

const (
	subjectWelcome              = "Bem-vindo ao Portal da Fé"
	subjectVenueApprovedFmt     = "Seu local %s foi aprovado"
	subjectVenueRejectedFmt     = "Seu local %s não foi aprovado"
	subjectCommentApprovedFmt   = "Seu comentário sobre %s foi publicado"
	subjectCommentRejectedFmt   = "Seu comentário sobre %s não foi publicado"
	subjectAppointmentBookedFmt = "Visita agendada: %s"
	subjectAppointmentCancelled = "Sua visita foi cancelada"
	subjectAppointmentReminder  = "Lembrete: sua visita se aproxima"
)
